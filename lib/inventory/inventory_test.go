package inventory

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/iglov/smbios-agent/lib/ipmi"
	"github.com/iglov/smbios-agent/lib/smbios"
)

// structure encodes one SMBIOS structure. area is the formatted area after
// the four byte header.
func structure(typ smbios.StructureType, handle uint16, area []byte, strs ...string) []byte {
	out := []byte{byte(typ), byte(4 + len(area)), byte(handle), byte(handle >> 8)}
	out = append(out, area...)
	if len(strs) == 0 {
		return append(out, 0, 0)
	}
	for _, s := range strs {
		out = append(out, s...)
		out = append(out, 0)
	}
	return append(out, 0)
}

func rawTable(major, minor uint8, structures ...[]byte) []byte {
	body := bytes.Join(structures, nil)
	buf := []byte{0, major, minor, 0, 0, 0, 0, 0}
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(body)))
	return append(buf, body...)
}

func firmwareStructure() []byte {
	area := make([]byte, 22)
	area[0], area[1], area[4] = 1, 2, 3 // vendor, version, release date
	area[5] = 0x3F                      // 4 MB
	binary.LittleEndian.PutUint64(area[6:], uint64(smbios.CharUpgradeable))
	area[15] = byte(smbios.Ext2UEFI)
	area[16], area[17] = 2, 14
	area[18], area[19] = 0xFF, 0xFF
	return structure(smbios.TypeFirmwareInformation, 0, area, "Dell Inc.", "2.14.1 ", "06/01/2022")
}

func systemStructure() []byte {
	area := make([]byte, 23)
	area[0], area[1], area[2], area[3] = 1, 2, 3, 4
	copy(area[4:], []byte{0x33, 0x22, 0x11, 0x00, 0x55, 0x44, 0x77, 0x66, 0x88, 0x99, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF})
	area[20] = byte(smbios.WakeUpPowerSwitch)
	area[21], area[22] = 5, 6
	return structure(smbios.TypeSystemInformation, 0x0100, area,
		"Dell Inc.", "PowerEdge M640", "Not Specified", "7XJ2K33", "SKU=0738", "PowerEdge")
}

func enclosureStructure(handle uint16, chassis smbios.ChassisType, serial string, height uint8) []byte {
	area := make([]byte, 0x15+3-4)
	area[0], area[1], area[2], area[3] = 1, byte(chassis), 2, 3
	area[0x11-4] = height
	area[0x13-4], area[0x14-4] = 1, 3
	area[0x15-4], area[0x16-4], area[0x17-4] = byte(smbios.TypeProcessorInformation), 1, 2
	return structure(smbios.TypeSystemEnclosure, handle, area, "Dell Inc.", "PowerEdge M1000e", serial)
}

func serverTable() []byte {
	return rawTable(3, 2,
		firmwareStructure(),
		systemStructure(),
		enclosureStructure(0x0300, smbios.ChassisBlade, "7XJ2K33", 0),
		enclosureStructure(0x0301, smbios.ChassisBladeEnclosure, "CH-1234", 10),
		structure(smbios.TypeEndOfTable, 0xFEFF, nil),
	)
}

type fakeHardware struct {
	err error
}

func (f fakeHardware) CPUs() ([]CPUInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []CPUInfo{{Manufacturer: "Intel", Version: "Xeon Gold 6230", CoreCount: 20, ThreadCount: 40}}, nil
}

func (f fakeHardware) MemoryDevices() ([]MemoryDeviceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []MemoryDeviceInfo{{Size: 32768, Type: "DDR4", Manufacturer: "Samsung", DeviceLocator: "A1"}}, nil
}

func (f fakeHardware) BaseboardLocation() (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "Slot 04", nil
}

func TestCollect(t *testing.T) {
	logger, _ := test.NewNullLogger()
	c := &Collector{
		Table:    serverTable(),
		Log:      logger,
		Hardware: fakeHardware{},
		BMC: func() (ipmi.BmcInfo, error) {
			return ipmi.BmcInfo{Ipaddr: "10.0.0.5"}, nil
		},
	}

	report, err := c.Collect()
	require.NoError(t, err)

	assert.Equal(t, "3.2", report.SMBIOS.Version)
	assert.Equal(t, "SMBIOS 3.x", report.SMBIOS.EntryPoint)
	assert.Equal(t, smbios.Revision{Major: 3, Minor: 2}, report.SMBIOS.Revision)

	require.NotNil(t, report.Bios)
	assert.Equal(t, "Dell Inc.", report.Bios.Vendor)
	assert.Equal(t, "2.14.1", report.Bios.Version)
	assert.Equal(t, time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC), report.Bios.ReleaseDate)
	assert.Equal(t, "2.14", report.Bios.BIOSRelease)
	assert.Equal(t, uint64(4<<20), report.Bios.ROMSize)
	assert.True(t, report.Bios.UEFI)
	assert.False(t, report.Bios.VirtualMachine)
	assert.Contains(t, report.Bios.Characteristics, "BIOS is upgradeable")
	assert.Contains(t, report.Bios.Characteristics, "UEFI is supported")

	require.NotNil(t, report.System)
	assert.Equal(t, "Dell", report.System.Manufacturer)
	assert.Equal(t, "PowerEdge M640", report.System.ProductName)
	assert.Equal(t, "7XJ2K33", report.System.SerialNumber)
	assert.Equal(t, "00112233-4455-6677-8899-aabbccddeeff", report.System.UUID)
	assert.Equal(t, "Power Switch", report.System.WakeUpType)
	assert.Equal(t, "Slot 04", report.System.LocationInChassis)

	require.Len(t, report.Chassis, 2)
	blade, enclosure := report.Chassis[0], report.Chassis[1]
	assert.Equal(t, "Blade", blade.Type)
	assert.Equal(t, "Unspecified", blade.Height)
	assert.True(t, blade.Server)
	assert.False(t, blade.RackMount)
	assert.Equal(t, "Blade Enclosing", enclosure.Type)
	assert.Equal(t, "10 U", enclosure.Height)
	assert.Equal(t, uint8(10), enclosure.RackUnits)
	assert.True(t, enclosure.RackMount)
	assert.Equal(t, "Dell", enclosure.Manufacturer)
	assert.Equal(t, []string{"Processor Information (type 4) 1-2"}, enclosure.ContainedElements)
	assert.Equal(t, &report.Chassis[0], report.PrimaryChassis())

	assert.Len(t, report.CPU, 1)
	assert.Len(t, report.Memory, 1)
	require.NotNil(t, report.IPMI)
	assert.Equal(t, "10.0.0.5", report.IPMI.Ipaddr)

	assert.Equal(t, map[string]int{
		"Firmware Information": 1,
		"System Information":   1,
		"System Enclosure":     2,
		"End Of Table":         1,
	}, report.Structures)
}

func TestCollectMissingStructures(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c := &Collector{
		Table: rawTable(2, 8, systemStructure(), structure(smbios.TypeEndOfTable, 0xFEFF, nil)),
		Log:   logger,
	}

	report, err := c.Collect()
	require.NoError(t, err)

	assert.Nil(t, report.Bios)
	assert.NotNil(t, report.System)
	assert.Empty(t, report.Chassis)
	assert.Nil(t, report.PrimaryChassis())
	assert.Nil(t, report.IPMI)

	var warnings int
	for _, e := range hook.AllEntries() {
		if e.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
}

func TestCollectMalformed(t *testing.T) {
	short := structure(smbios.TypeFirmwareInformation, 0, make([]byte, 4), "A")
	c := &Collector{Table: rawTable(3, 0, short)}

	_, err := c.Collect()
	require.Error(t, err)
	assert.True(t, smbios.IsMalformed(err))
}

func TestCollectSourceFailuresAreNotFatal(t *testing.T) {
	logger, hook := test.NewNullLogger()
	c := &Collector{
		Table:    serverTable(),
		Log:      logger,
		Hardware: fakeHardware{err: errors.New("no /dev/mem")},
		BMC: func() (ipmi.BmcInfo, error) {
			return ipmi.BmcInfo{}, errors.New("no ipmi device")
		},
	}

	report, err := c.Collect()
	require.NoError(t, err)
	assert.Empty(t, report.CPU)
	assert.Nil(t, report.IPMI)
	assert.Len(t, hook.AllEntries(), 4)
}

func TestCollectDefaultProvider(t *testing.T) {
	saved := smbios.DefaultProvider
	defer func() { smbios.DefaultProvider = saved }()
	smbios.DefaultProvider = smbios.StaticProvider(serverTable())

	report, err := (&Collector{}).Collect()
	require.NoError(t, err)
	assert.Equal(t, "7XJ2K33", report.System.SerialNumber)
}

func TestNewSystemInfoWithoutUUID(t *testing.T) {
	vendor := "Supermicro "
	info := NewSystemInfo(&smbios.SystemInformation{Manufacturer: &vendor, WakeUpType: smbios.WakeUpUnknown})
	assert.Equal(t, "Supermicro", info.Manufacturer)
	assert.Empty(t, info.UUID)
	assert.Equal(t, "Unknown", info.WakeUpType)

	id := uuid.MustParse("4c4c4544-0037-5810-804a-b7c04f4b3333")
	info = NewSystemInfo(&smbios.SystemInformation{UUID: &id})
	assert.Equal(t, "4c4c4544-0037-5810-804a-b7c04f4b3333", info.UUID)
}

func TestReportEncode(t *testing.T) {
	report := &Report{
		SMBIOS: VersionInfo{Version: "3.2", EntryPoint: "SMBIOS 3.x"},
		System: &SystemInfo{Manufacturer: "Dell", SerialNumber: "7XJ2K33"},
	}

	var js bytes.Buffer
	require.NoError(t, report.Encode(&js, FormatJSON))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "7XJ2K33", decoded["system"].(map[string]interface{})["serial_number"])
	assert.NotContains(t, decoded, "bios")

	var ym bytes.Buffer
	require.NoError(t, report.Encode(&ym, FormatYAML))
	var fromYAML map[string]interface{}
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &fromYAML))
	assert.Contains(t, ym.String(), "serial_number: 7XJ2K33")

	assert.Error(t, report.Encode(&js, "xml"))
}

func TestCensusBrokenTable(t *testing.T) {
	_, err := Census(rawTable(3, 0, systemStructure()))
	assert.Error(t, err)

	_, err = Census([]byte{1})
	assert.Error(t, err)
}
