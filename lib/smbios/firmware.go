package smbios

import (
	"fmt"
	"strings"
	"time"
)

// Firmware information (type 0) layout.
var (
	fwVendor               = Field{Name: "Vendor", Offset: 0x04, Size: 1}
	fwVersion              = Field{Name: "Version", Offset: 0x05, Size: 1}
	fwStartingSegment      = Field{Name: "StartingAddressSegment", Offset: 0x06, Size: 2}
	fwReleaseDate          = Field{Name: "ReleaseDate", Offset: 0x08, Size: 1}
	fwROMSize              = Field{Name: "ROMSize", Offset: 0x09, Size: 1}
	fwCharacteristics      = Field{Name: "Characteristics", Offset: 0x0A, Size: 8}
	fwCharacteristicsExt1  = Field{Name: "CharacteristicsExt1", Offset: 0x12, Size: 1}
	fwCharacteristicsExt2  = Field{Name: "CharacteristicsExt2", Offset: 0x13, Size: 1}
	fwSystemBIOSMajor      = Field{Name: "SystemBIOSMajorRelease", Offset: 0x14, Size: 1}
	fwSystemBIOSMinor      = Field{Name: "SystemBIOSMinorRelease", Offset: 0x15, Size: 1}
	fwEmbeddedControllerMj = Field{Name: "EmbeddedControllerMajorRelease", Offset: 0x16, Size: 1}
	fwEmbeddedControllerMn = Field{Name: "EmbeddedControllerMinorRelease", Offset: 0x17, Size: 1}
	fwExtendedROMSize      = Field{Name: "ExtendedROMSize", Offset: 0x18, Size: 2}
)

// FirmwareFields is the layout of the firmware information structure in
// table order. The minimum length of the structure covers Characteristics.
var FirmwareFields = []Field{
	fwVendor, fwVersion, fwStartingSegment, fwReleaseDate, fwROMSize, fwCharacteristics,
	fwCharacteristicsExt1, fwCharacteristicsExt2,
	fwSystemBIOSMajor, fwSystemBIOSMinor, fwEmbeddedControllerMj, fwEmbeddedControllerMn,
	fwExtendedROMSize,
}

// MinFirmwareLength is the shortest valid firmware information structure.
const MinFirmwareLength = 18

// legacyROMSizeSentinel in the ROM size byte points to the extended field.
const legacyROMSizeSentinel = 0xFF

// releaseDateLayouts are tried in order. Month and day may omit the leading zero.
var releaseDateLayouts = []string{"1/2/2006", shortYearLayout}

// shortYearLayout maps two-digit years onto 1950-2049 instead of time's
// 1969-2068 window.
const (
	shortYearLayout = "1/2/06"
	shortYearMax    = 2049
)

// ROMSizeUnit is the unit of an extended ROM size.
type ROMSizeUnit uint8

// Extended ROM size units. Values 2 and 3 are reserved.
const (
	ROMSizeMiB ROMSizeUnit = 0
	ROMSizeGiB ROMSizeUnit = 1
)

func (u ROMSizeUnit) String() string {
	switch u {
	case ROMSizeMiB:
		return "MB"
	case ROMSizeGiB:
		return "GB"
	default:
		return fmt.Sprintf("reserved (%d)", uint8(u))
	}
}

// ExtendedROMSize is the 16-bit extended BIOS ROM size: bits 15:14 hold the
// unit and bits 13:0 the size.
type ExtendedROMSize struct {
	Raw uint16 `json:"raw" yaml:"raw"`
}

// Size returns the 14-bit size value.
func (e ExtendedROMSize) Size() uint16 {
	return e.Raw & 0x3FFF
}

// Unit returns the unit of Size.
func (e ExtendedROMSize) Unit() ROMSizeUnit {
	return ROMSizeUnit(e.Raw >> 14)
}

// Bytes converts the size to bytes. ok is false for reserved units.
func (e ExtendedROMSize) Bytes() (uint64, bool) {
	switch e.Unit() {
	case ROMSizeMiB:
		return uint64(e.Size()) << 20, true
	case ROMSizeGiB:
		return uint64(e.Size()) << 30, true
	default:
		return 0, false
	}
}

func (e ExtendedROMSize) String() string {
	return fmt.Sprintf("%d %s", e.Size(), e.Unit())
}

// FirmwareInformation is the decoded BIOS/platform firmware structure (type 0).
type FirmwareInformation struct {
	Header

	Vendor                 *string                     `json:"vendor,omitempty" yaml:"vendor,omitempty"`
	Version                *string                     `json:"version,omitempty" yaml:"version,omitempty"`
	StartingAddressSegment *uint16                     `json:"starting_address_segment,omitempty" yaml:"starting_address_segment,omitempty"`
	ReleaseDate            time.Time                   `json:"release_date" yaml:"release_date"`
	ROMSizeBytes           *uint32                     `json:"rom_size_bytes,omitempty" yaml:"rom_size_bytes,omitempty"`
	Characteristics        FirmwareCharacteristics     `json:"characteristics" yaml:"characteristics"`
	CharacteristicsExt1    FirmwareCharacteristicsExt1 `json:"characteristics_ext1" yaml:"characteristics_ext1"`
	CharacteristicsExt2    FirmwareCharacteristicsExt2 `json:"characteristics_ext2" yaml:"characteristics_ext2"`

	SystemBIOSMajorRelease         *uint8 `json:"system_bios_major_release,omitempty" yaml:"system_bios_major_release,omitempty"`
	SystemBIOSMinorRelease         *uint8 `json:"system_bios_minor_release,omitempty" yaml:"system_bios_minor_release,omitempty"`
	EmbeddedControllerMajorRelease *uint8 `json:"embedded_controller_major_release,omitempty" yaml:"embedded_controller_major_release,omitempty"`
	EmbeddedControllerMinorRelease *uint8 `json:"embedded_controller_minor_release,omitempty" yaml:"embedded_controller_minor_release,omitempty"`

	ExtendedROMSize *ExtendedROMSize `json:"extended_rom_size,omitempty" yaml:"extended_rom_size,omitempty"`
}

// DecodeFirmwareInformation decodes the type 0 structure at pos.
func DecodeFirmwareInformation(buf []byte, pos Position) (*FirmwareInformation, error) {
	r, err := newRecord(buf, pos, TypeFirmwareInformation, MinFirmwareLength)
	if err != nil {
		return nil, err
	}

	date, err := parseReleaseDate(r.str(fwReleaseDate))
	if err != nil {
		return nil, err
	}

	fw := &FirmwareInformation{
		Header:                 r.header(),
		Vendor:                 r.str(fwVendor),
		Version:                r.str(fwVersion),
		StartingAddressSegment: nonZero16(r.word(fwStartingSegment)),
		ReleaseDate:            date,
	}

	romSize, _ := r.byteAt(fwROMSize)
	fw.ROMSizeBytes = legacyROMSize(romSize)
	if romSize == legacyROMSizeSentinel {
		if raw, ok := r.word(fwExtendedROMSize); ok {
			fw.ExtendedROMSize = &ExtendedROMSize{Raw: raw}
		}
	}

	chars, _ := r.qword(fwCharacteristics)
	fw.Characteristics = FirmwareCharacteristics(chars)
	ext1, _ := r.byteAt(fwCharacteristicsExt1)
	fw.CharacteristicsExt1 = FirmwareCharacteristicsExt1(ext1)
	ext2, _ := r.byteAt(fwCharacteristicsExt2)
	fw.CharacteristicsExt2 = FirmwareCharacteristicsExt2(ext2)

	fw.SystemBIOSMajorRelease = notFF8(r.byteAt(fwSystemBIOSMajor))
	fw.SystemBIOSMinorRelease = notFF8(r.byteAt(fwSystemBIOSMinor))
	fw.EmbeddedControllerMajorRelease = notFF8(r.byteAt(fwEmbeddedControllerMj))
	fw.EmbeddedControllerMinorRelease = notFF8(r.byteAt(fwEmbeddedControllerMn))

	return fw, nil
}

// legacyROMSize converts the ROM size byte, (n+1) * 64K. The sentinel means
// the size lives in the extended field.
func legacyROMSize(b uint8) *uint32 {
	if b == legacyROMSizeSentinel {
		return nil
	}
	size := (uint32(b) + 1) * 64 * 1024
	return &size
}

func parseReleaseDate(s *string) (time.Time, error) {
	if s == nil {
		return time.Time{}, &FieldDecodeError{Type: TypeFirmwareInformation, Field: fwReleaseDate.Name, Reason: "release date is not set"}
	}

	value := strings.TrimSpace(*s)
	var lastErr error
	for _, layout := range releaseDateLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			if layout == shortYearLayout && t.Year() > shortYearMax {
				t = t.AddDate(-100, 0, 0)
			}
			return t, nil
		}
		lastErr = err
	}

	return time.Time{}, &FieldDecodeError{
		Type:   TypeFirmwareInformation,
		Field:  fwReleaseDate.Name,
		Reason: fmt.Sprintf("cannot parse %q as MM/dd/yyyy", value),
		Err:    lastErr,
	}
}

// ROMSize returns the ROM size in bytes from whichever field carries it.
func (f *FirmwareInformation) ROMSize() (uint64, bool) {
	if f.ROMSizeBytes != nil {
		return uint64(*f.ROMSizeBytes), true
	}
	if f.ExtendedROMSize != nil {
		return f.ExtendedROMSize.Bytes()
	}
	return 0, false
}

// IsUpgradeable reports a flash-upgradeable BIOS.
func (f *FirmwareInformation) IsUpgradeable() bool {
	return f.Characteristics.Has(CharUpgradeable)
}

// IsUEFISupported reports UEFI firmware.
func (f *FirmwareInformation) IsUEFISupported() bool {
	return f.CharacteristicsExt2.Has(Ext2UEFI)
}

// IsVirtualMachine reports firmware that declares itself to be a VM.
func (f *FirmwareInformation) IsVirtualMachine() bool {
	return f.CharacteristicsExt2.Has(Ext2VirtualMachine)
}

func (f *FirmwareInformation) IsManufacturingModeSupported() bool {
	return f.CharacteristicsExt2.Has(Ext2ManufacturingModeSupported)
}

func (f *FirmwareInformation) IsManufacturingModeEnabled() bool {
	return f.CharacteristicsExt2.Has(Ext2ManufacturingModeEnabled)
}

// AgeInDays is the number of days between the release date and now.
func (f *FirmwareInformation) AgeInDays(now time.Time) float64 {
	return now.Sub(f.ReleaseDate).Hours() / 24
}

// ReleasedAfter reports whether the firmware was released strictly after t.
func (f *FirmwareInformation) ReleasedAfter(t time.Time) bool {
	return f.ReleaseDate.After(t)
}

// BIOSRelease returns "major.minor" of the system BIOS, or "" if unknown.
func (f *FirmwareInformation) BIOSRelease() string {
	return release(f.SystemBIOSMajorRelease, f.SystemBIOSMinorRelease)
}

// EmbeddedControllerRelease returns "major.minor" of the EC firmware, or "" if unknown.
func (f *FirmwareInformation) EmbeddedControllerRelease() string {
	return release(f.EmbeddedControllerMajorRelease, f.EmbeddedControllerMinorRelease)
}

func release(major, minor *uint8) string {
	if major == nil || minor == nil {
		return ""
	}
	return fmt.Sprintf("%d.%d", *major, *minor)
}

func (f *FirmwareInformation) String() string {
	parts := make([]string, 0, 3)
	if f.Vendor != nil {
		parts = append(parts, *f.Vendor)
	}
	if f.Version != nil {
		parts = append(parts, *f.Version)
	}
	parts = append(parts, "("+f.ReleaseDate.Format("2006-01-02")+")")
	return strings.Join(parts, " ")
}
