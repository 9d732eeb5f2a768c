package inventory

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/yumaojun03/dmidecode"
)

// CPUInfo holds the details of a CPU.
type CPUInfo struct {
	Manufacturer      string `json:"manufacturer" yaml:"manufacturer"`
	SocketDesignation string `json:"socket_designation" yaml:"socket_designation"`
	Version           string `json:"version" yaml:"version"`
	CoreCount         uint8  `json:"core_count" yaml:"core_count"`
	ThreadCount       uint8  `json:"thread_count" yaml:"thread_count"`
}

// MemoryDeviceInfo holds the details of a memory device.
type MemoryDeviceInfo struct {
	Size          uint16 `json:"size" yaml:"size"`
	FormFactor    string `json:"form_factor" yaml:"form_factor"`
	Speed         uint16 `json:"speed" yaml:"speed"`
	Type          string `json:"type" yaml:"type"`
	Manufacturer  string `json:"manufacturer" yaml:"manufacturer"`
	SerialNumber  string `json:"serial_number" yaml:"serial_number"`
	AssetTag      string `json:"asset_tag" yaml:"asset_tag"`
	PartNumber    string `json:"part_number" yaml:"part_number"`
	DeviceLocator string `json:"device_locator" yaml:"device_locator"`
}

// HardwareSource provides the processor, memory and baseboard facts that the
// SMBIOS decoders of this module do not cover.
type HardwareSource interface {
	CPUs() ([]CPUInfo, error)
	MemoryDevices() ([]MemoryDeviceInfo, error)
	BaseboardLocation() (string, error)
}

// DMIDecode reads processor, memory and baseboard structures with the
// yumaojun03/dmidecode decoder.
type DMIDecode struct{}

// CPUs fetches and returns the CPU information as a list.
func (DMIDecode) CPUs() ([]CPUInfo, error) {
	dmi, err := dmidecode.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open dmi table")
	}

	processors, err := dmi.Processor()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode processors")
	}

	var cpus []CPUInfo
	for _, cpu := range processors {
		cpus = append(cpus, CPUInfo{
			Manufacturer:      strings.Trim(cpu.Manufacturer, " "),
			SocketDesignation: cpu.SocketDesignation,
			Version:           strings.TrimSpace(cpu.Version),
			CoreCount:         cpu.CoreCount,
			ThreadCount:       cpu.ThreadCount,
		})
	}

	return cpus, nil
}

// MemoryDevices fetches and returns the populated memory slots.
func (DMIDecode) MemoryDevices() ([]MemoryDeviceInfo, error) {
	dmi, err := dmidecode.New()
	if err != nil {
		return nil, errors.Wrap(err, "failed to open dmi table")
	}

	devices, err := dmi.MemoryDevice()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode memory devices")
	}

	var memory []MemoryDeviceInfo
	for _, device := range devices {
		if !populated(device.Size) {
			continue
		}

		memory = append(memory, MemoryDeviceInfo{
			Size:          device.Size,
			FormFactor:    device.FormFactor.String(),
			Speed:         device.Speed,
			Type:          device.Type.String(),
			Manufacturer:  strings.TrimSpace(device.Manufacturer),
			SerialNumber:  strings.TrimSpace(device.SerialNumber),
			AssetTag:      strings.TrimSpace(device.AssetTag),
			PartNumber:    strings.TrimSpace(device.PartNumber),
			DeviceLocator: device.DeviceLocator,
		})
	}

	return memory, nil
}

// BaseboardLocation returns the location in chassis of the first baseboard,
// which is the slot of a blade in its enclosure.
func (DMIDecode) BaseboardLocation() (string, error) {
	dmi, err := dmidecode.New()
	if err != nil {
		return "", errors.Wrap(err, "failed to open dmi table")
	}

	boards, err := dmi.BaseBoard()
	if err != nil {
		return "", errors.Wrap(err, "failed to decode baseboards")
	}
	if len(boards) == 0 {
		return "", nil
	}

	return strings.TrimSpace(boards[0].LocationInChassis), nil
}

// populated skips empty or unknown memory slots (where size is 0 or unknown).
func populated(size uint16) bool {
	return size != 0 && size != 0xFFFF
}
