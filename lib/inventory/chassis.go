package inventory

import (
	"fmt"

	"github.com/iglov/smbios-agent/lib/smbios"
)

// ChassisInfo holds the details of the chassis.
type ChassisInfo struct {
	Version      string `json:"version" yaml:"version"`
	SerialNumber string `json:"serial_number" yaml:"serial_number"`
	Height       string `json:"height" yaml:"height"`
	Manufacturer string `json:"manufacturer" yaml:"manufacturer"`
	AssetTag     string `json:"asset_tag,omitempty" yaml:"asset_tag,omitempty"`
	SKUNumber    string `json:"sku_number,omitempty" yaml:"sku_number,omitempty"`
	Type         string `json:"type" yaml:"type"`
	Locked       bool   `json:"locked" yaml:"locked"`

	RackUnits uint8 `json:"rack_units,omitempty" yaml:"rack_units,omitempty"`
	Server    bool  `json:"server" yaml:"server"`
	Portable  bool  `json:"portable" yaml:"portable"`
	RackMount bool  `json:"rack_mount" yaml:"rack_mount"`

	ContainedElements []string `json:"contained_elements,omitempty" yaml:"contained_elements,omitempty"`
}

// NewChassisInfo converts a decoded system enclosure structure.
func NewChassisInfo(enc *smbios.SystemEnclosure) ChassisInfo {
	info := ChassisInfo{
		Version:      value(enc.Version),
		SerialNumber: value(enc.SerialNumber),
		Height:       "Unspecified",
		Manufacturer: firstWord(value(enc.Manufacturer)),
		AssetTag:     value(enc.AssetTag),
		SKUNumber:    value(enc.SKUNumber),
		Type:         enc.ChassisType().String(),
		Locked:       enc.TypeAndLock.Locked(),
		Server:       enc.IsServerChassis(),
		Portable:     enc.IsPortable(),
		RackMount:    enc.IsRackMount(),
	}
	if u := enc.RackUnits(); u != nil {
		info.RackUnits = *u
		info.Height = fmt.Sprintf("%d U", *u)
	}

	for _, el := range enc.ContainedElements {
		s := el.String()
		if lo, hi := el.Minimum(), el.Maximum(); el.RangeValid() {
			s += fmt.Sprintf(" %d-%d", *lo, *hi)
		}
		info.ContainedElements = append(info.ContainedElements, s)
	}

	return info
}
