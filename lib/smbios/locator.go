package smbios

const (
	// tableHeaderLen is the size of the raw table header that precedes the
	// structures: used method, major, minor, DMI revision and a 32-bit length.
	tableHeaderLen = 8

	// structureHeaderLen is the size of the type, length and handle prefix.
	structureHeaderLen = 4
)

// FindOffsets walks every structure in buf and returns the position of each
// structure of type typ, in table order. A table without such a structure
// yields a *NotFoundError.
func FindOffsets(buf []byte, typ StructureType) ([]Position, error) {
	if len(buf) < tableHeaderLen {
		return nil, &BufferTooShortError{Actual: len(buf), Required: tableHeaderLen}
	}

	var positions []Position
	offset := tableHeaderLen
	for len(buf)-offset >= structureHeaderLen {
		length := buf[offset+1]
		if StructureType(buf[offset]) == typ {
			positions = append(positions, Position{Offset: offset, Length: length})
		}

		// a length below the header size would never move us forward
		if length < structureHeaderLen {
			break
		}

		offset = skipStrings(buf, offset+int(length))
	}

	if len(positions) == 0 {
		return nil, &NotFoundError{Type: typ}
	}

	return positions, nil
}

// skipStrings returns the offset just past the double-null that terminates the
// string set starting at offset, or len(buf) if there is none.
func skipStrings(buf []byte, offset int) int {
	for offset+1 < len(buf) && !(buf[offset] == 0 && buf[offset+1] == 0) {
		offset++
	}
	return offset + 2
}
