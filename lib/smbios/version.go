package smbios

import (
	"encoding/binary"
	"fmt"
)

// EntryPointType tells which entry point anchor published the table.
type EntryPointType uint8

// Entry point kinds. Unknown is used for hand-built tables.
const (
	EntryPointUnknown EntryPointType = iota
	EntryPoint2x
	EntryPoint3x
)

func (e EntryPointType) String() string {
	switch e {
	case EntryPoint2x:
		return "SMBIOS 2.x"
	case EntryPoint3x:
		return "SMBIOS 3.x"
	default:
		return "Unknown"
	}
}

// Revision is a major.minor SMBIOS specification revision.
type Revision struct {
	Major uint8
	Minor uint8
}

// AtLeast reports whether r is the same as or newer than other.
func (r Revision) AtLeast(other Revision) bool {
	return r.Major > other.Major || (r.Major == other.Major && r.Minor >= other.Minor)
}

func (r Revision) String() string {
	return fmt.Sprintf("%d.%d", r.Major, r.Minor)
}

// ParseRevision parses "major.minor".
func ParseRevision(s string) (Revision, error) {
	var r Revision
	if _, err := fmt.Sscanf(s, "%d.%d", &r.Major, &r.Minor); err != nil {
		return Revision{}, fmt.Errorf("invalid SMBIOS revision %q: %w", s, err)
	}
	return r, nil
}

// VersionInfo describes the table header of a raw SMBIOS buffer.
type VersionInfo struct {
	Major       uint8          `json:"major" yaml:"major"`
	Minor       uint8          `json:"minor" yaml:"minor"`
	DMIRevision uint8          `json:"dmi_revision" yaml:"dmi_revision"`
	EntryPoint  EntryPointType `json:"entry_point" yaml:"entry_point"`
	TableLength uint32         `json:"table_length" yaml:"table_length"`
}

// ParseVersion reads the eight byte raw table header.
func ParseVersion(buf []byte) (VersionInfo, error) {
	if len(buf) < tableHeaderLen {
		return VersionInfo{}, &BufferTooShortError{Actual: len(buf), Required: tableHeaderLen}
	}

	v := VersionInfo{
		Major:       buf[1],
		Minor:       buf[2],
		DMIRevision: buf[3],
		EntryPoint:  EntryPoint2x,
		TableLength: binary.LittleEndian.Uint32(buf[4:8]),
	}
	if v.Major >= 3 {
		v.EntryPoint = EntryPoint3x
	}

	return v, nil
}

// Revision returns the major.minor pair.
func (v VersionInfo) Revision() Revision {
	return Revision{Major: v.Major, Minor: v.Minor}
}

// Short returns "major.minor".
func (v VersionInfo) Short() string {
	return v.Revision().String()
}

func (v VersionInfo) String() string {
	s := "SMBIOS " + v.Short()
	if v.EntryPoint != EntryPointUnknown {
		s += " (" + v.EntryPoint.String() + ")"
	}
	if v.DMIRevision > 0 {
		s += fmt.Sprintf(", DMI %d", v.DMIRevision)
	}
	return s
}

// IsModern reports a 3.x or newer table.
func (v VersionInfo) IsModern() bool { return v.Major >= 3 }

// IsLegacy reports a 2.x table.
func (v VersionInfo) IsLegacy() bool { return v.Major == 2 }

// introducedIn lists the first revision defining a structure type. Types not
// listed date back to 2.0.
var introducedIn = map[StructureType]Revision{
	TypeOnBoardDevicesInformation:    {2, 1},
	TypeOEMStrings:                   {2, 1},
	TypeSystemConfigurationOptions:   {2, 1},
	TypeFirmwareLanguageInformation:  {2, 1},
	TypeGroupAssociations:            {2, 1},
	TypeSystemEventLog:               {2, 1},
	TypePhysicalMemoryArray:          {2, 1},
	TypeMemoryDevice:                 {2, 1},
	TypePortableBattery:              {2, 3},
	TypeSystemReset:                  {2, 3},
	TypeHardwareSecurity:             {2, 3},
	TypeSystemPowerSupply:            {2, 7},
	TypeTPMDevice:                    {3, 0},
	TypeFirmwareInventoryInformation: {3, 1},
	TypeStringProperty:               {3, 1},
}

// obsoletedIn lists the revision from which a structure type is deprecated.
var obsoletedIn = map[StructureType]Revision{
	TypeMemoryControllerInformation: {2, 1},
	TypeMemoryModuleInformation:     {2, 1},
	TypeOnBoardDevicesInformation:   {2, 6},
	// Boot Integrity Services never gained adoption.
	TypeBootIntegrityServicesEntryPoint: {0, 0},
}

// SupportsType reports whether the table revision defines typ.
func (v VersionInfo) SupportsType(typ StructureType) bool {
	switch typ {
	case TypeInactive, TypeEndOfTable:
		return true
	}

	if rev, ok := introducedIn[typ]; ok {
		return v.Revision().AtLeast(rev)
	}
	return v.Major >= 2
}

// IsObsoleteType reports whether typ is deprecated at the table revision.
func (v VersionInfo) IsObsoleteType(typ StructureType) bool {
	rev, ok := obsoletedIn[typ]
	if !ok {
		return false
	}
	return v.Revision().AtLeast(rev)
}
