package inventory

import (
	"strings"
	"time"

	"github.com/iglov/smbios-agent/lib/smbios"
)

// VersionInfo describes the SMBIOS table the report was built from.
type VersionInfo struct {
	Version     string `json:"version" yaml:"version"`
	EntryPoint  string `json:"entry_point" yaml:"entry_point"`
	DMIRevision uint8  `json:"dmi_revision" yaml:"dmi_revision"`
	TableLength uint32 `json:"table_length" yaml:"table_length"`

	Revision smbios.Revision `json:"-" yaml:"-"`
}

// NewVersionInfo converts the table header.
func NewVersionInfo(v smbios.VersionInfo) VersionInfo {
	return VersionInfo{
		Version:     v.Short(),
		EntryPoint:  v.EntryPoint.String(),
		DMIRevision: v.DMIRevision,
		TableLength: v.TableLength,
		Revision:    v.Revision(),
	}
}

// BiosInfo holds the details of the platform firmware.
type BiosInfo struct {
	Vendor          string    `json:"vendor" yaml:"vendor"`
	Version         string    `json:"version" yaml:"version"`
	ReleaseDate     time.Time `json:"release_date" yaml:"release_date"`
	BIOSRelease     string    `json:"bios_release,omitempty" yaml:"bios_release,omitempty"`
	ECRelease       string    `json:"ec_release,omitempty" yaml:"ec_release,omitempty"`
	ROMSize         uint64    `json:"rom_size,omitempty" yaml:"rom_size,omitempty"`
	UEFI            bool      `json:"uefi" yaml:"uefi"`
	VirtualMachine  bool      `json:"virtual_machine" yaml:"virtual_machine"`
	Characteristics []string  `json:"characteristics,omitempty" yaml:"characteristics,omitempty"`
}

// NewBiosInfo converts a decoded firmware information structure.
func NewBiosInfo(fw *smbios.FirmwareInformation) BiosInfo {
	info := BiosInfo{
		Vendor:         value(fw.Vendor),
		Version:        value(fw.Version),
		ReleaseDate:    fw.ReleaseDate,
		BIOSRelease:    fw.BIOSRelease(),
		ECRelease:      fw.EmbeddedControllerRelease(),
		UEFI:           fw.IsUEFISupported(),
		VirtualMachine: fw.IsVirtualMachine(),
	}
	if size, ok := fw.ROMSize(); ok {
		info.ROMSize = size
	}

	info.Characteristics = append(info.Characteristics, fw.Characteristics.Names()...)
	info.Characteristics = append(info.Characteristics, fw.CharacteristicsExt1.Names()...)
	info.Characteristics = append(info.Characteristics, fw.CharacteristicsExt2.Names()...)

	return info
}

// value dereferences an optional SMBIOS string, trimming the padding some
// vendors leave in place.
func value(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// firstWord extracts only the first part of a manufacturer name ("Dell Inc."
// becomes "Dell").
func firstWord(s string) string {
	return strings.Split(s, " ")[0]
}
