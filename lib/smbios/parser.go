// Package smbios decodes the raw SMBIOS firmware table into typed records.
//
// A raw table is the eight byte header (used calling method, major and minor
// version, DMI revision, little-endian structure length) followed by the
// concatenated structures, the layout Windows returns for the 'RSMB' firmware
// table provider. All decoding functions are pure functions of that buffer;
// only Load touches the firmware, through a TableProvider.
package smbios

// DecodeFunc decodes the structure at pos.
type DecodeFunc[T Structure] func(buf []byte, pos Position) (T, error)

// GetOne decodes the single structure of type typ. An empty buf is loaded from
// DefaultProvider first. More than one match is a *MultipleStructuresError.
func GetOne[T Structure](buf []byte, typ StructureType, decode DecodeFunc[T]) (T, error) {
	var zero T

	buf, err := tableOrDefault(buf)
	if err != nil {
		return zero, err
	}

	positions, err := FindOffsets(buf, typ)
	if err != nil {
		return zero, err
	}
	if len(positions) > 1 {
		return zero, &MultipleStructuresError{Type: typ, Count: len(positions)}
	}

	return decode(buf, positions[0])
}

// GetAll decodes every structure of type typ in table order. Any structure
// that fails to decode fails the whole call.
func GetAll[T Structure](buf []byte, typ StructureType, decode DecodeFunc[T]) ([]T, error) {
	buf, err := tableOrDefault(buf)
	if err != nil {
		return nil, err
	}

	positions, err := FindOffsets(buf, typ)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(positions))
	for _, pos := range positions {
		s, err := decode(buf, pos)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}

	return out, nil
}

func tableOrDefault(buf []byte) ([]byte, error) {
	if len(buf) > 0 {
		return buf, nil
	}
	return Load(DefaultProvider)
}

// GetVersion parses the table header. An empty buf is loaded from DefaultProvider.
func GetVersion(buf []byte) (VersionInfo, error) {
	buf, err := tableOrDefault(buf)
	if err != nil {
		return VersionInfo{}, err
	}
	return ParseVersion(buf)
}

// GetFirmwareInformation returns the firmware (BIOS) information structure.
func GetFirmwareInformation(buf []byte) (*FirmwareInformation, error) {
	return GetOne(buf, TypeFirmwareInformation, DecodeFirmwareInformation)
}

// GetSystemInformation returns the system information structure.
func GetSystemInformation(buf []byte) (*SystemInformation, error) {
	return GetOne(buf, TypeSystemInformation, DecodeSystemInformation)
}

// GetSystemEnclosure returns the system enclosure when there is exactly one.
func GetSystemEnclosure(buf []byte) (*SystemEnclosure, error) {
	return GetOne(buf, TypeSystemEnclosure, DecodeSystemEnclosure)
}

// GetSystemEnclosures returns every system enclosure, e.g. a blade and the
// chassis it sits in.
func GetSystemEnclosures(buf []byte) ([]*SystemEnclosure, error) {
	return GetAll(buf, TypeSystemEnclosure, DecodeSystemEnclosure)
}
