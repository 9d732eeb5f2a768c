package smbios

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// Field describes one fixed-offset value inside a structure's formatted area.
// Offsets are relative to the start of the structure header.
type Field struct {
	Name   string
	Offset int
	Size   int
}

// MinLength is the smallest structure length that still contains f. Fields
// past a structure's declared length were added in a later revision of the
// standard and are treated as absent.
func (f Field) MinLength() int {
	return f.Offset + f.Size
}

// record is a bounds-checked view of one structure in a raw table.
type record struct {
	buf    []byte
	offset int
	length int
	typ    StructureType
}

// newRecord validates the declared length against the type minimum and the
// buffer end.
func newRecord(buf []byte, pos Position, typ StructureType, minLength int) (record, error) {
	if int(pos.Length) < minLength {
		return record{}, &StructureTooShortError{Type: typ, Actual: int(pos.Length), Required: minLength}
	}
	if pos.Offset < 0 || pos.Offset+int(pos.Length) > len(buf) {
		return record{}, &BufferTooShortError{Actual: len(buf), Required: pos.Offset + int(pos.Length)}
	}
	if StructureType(buf[pos.Offset]) != typ {
		return record{}, &FieldDecodeError{Type: typ, Field: "type", Reason: "structure is of type " + StructureType(buf[pos.Offset]).String()}
	}

	return record{buf: buf, offset: pos.Offset, length: int(pos.Length), typ: typ}, nil
}

func (r record) header() Header {
	return Header{
		Type:   r.typ,
		Length: uint8(r.length),
		Handle: binary.LittleEndian.Uint16(r.buf[r.offset+2 : r.offset+4]),
	}
}

func (r record) has(f Field) bool {
	return r.length >= f.MinLength()
}

func (r record) bytes(f Field) []byte {
	return r.buf[r.offset+f.Offset : r.offset+f.Offset+f.Size]
}

func (r record) span(f Field) ([]byte, bool) {
	if !r.has(f) {
		return nil, false
	}
	return r.bytes(f), true
}

// byteAt reads a one byte field; ok is false when the structure is too short.
func (r record) byteAt(f Field) (uint8, bool) {
	if !r.has(f) {
		return 0, false
	}
	return r.buf[r.offset+f.Offset], true
}

func (r record) word(f Field) (uint16, bool) {
	if !r.has(f) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(r.bytes(f)), true
}

func (r record) dword(f Field) (uint32, bool) {
	if !r.has(f) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(r.bytes(f)), true
}

func (r record) qword(f Field) (uint64, bool) {
	if !r.has(f) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(r.bytes(f)), true
}

// str resolves a string-index field against the structure's string table.
func (r record) str(f Field) *string {
	idx, ok := r.byteAt(f)
	if !ok {
		return nil
	}
	return r.stringAt(idx)
}

func (r record) stringAt(idx uint8) *string {
	return GetString(r.buf, r.offset+r.length, idx)
}

// Sentinel normalization. Each helper turns the "not specified" encoding of a
// field into nil.

func optional8(v uint8, ok bool) *uint8 {
	if !ok {
		return nil
	}
	return &v
}

func optional32(v uint32, ok bool) *uint32 {
	if !ok {
		return nil
	}
	return &v
}

func notFF8(v uint8, ok bool) *uint8 {
	if !ok || v == 0xFF {
		return nil
	}
	return &v
}

func nonZero8(v uint8, ok bool) *uint8 {
	if !ok || v == 0 {
		return nil
	}
	return &v
}

func nonZero16(v uint16, ok bool) *uint16 {
	if !ok || v == 0 {
		return nil
	}
	return &v
}

// specified8 treats both 0 (unspecified) and 0xFF (unknown) as absent.
func specified8(v uint8, ok bool) *uint8 {
	if !ok || v == 0 || v == 0xFF {
		return nil
	}
	return &v
}

// uuidOrNil decodes the 16 byte system UUID. All zeros means "not present"
// and all 0xFF means "not set"; both are nil.
//
// The first three groups are stored little-endian (SMBIOS 2.6 and later), the
// rest in network order, so they are swapped into RFC 4122 order.
func uuidOrNil(raw []byte, ok bool) *uuid.UUID {
	if !ok || len(raw) != 16 {
		return nil
	}

	allZero, allFF := true, true
	for _, b := range raw {
		if b != 0x00 {
			allZero = false
		}
		if b != 0xFF {
			allFF = false
		}
	}
	if allZero || allFF {
		return nil
	}

	var u uuid.UUID
	u[0], u[1], u[2], u[3] = raw[3], raw[2], raw[1], raw[0]
	u[4], u[5] = raw[5], raw[4]
	u[6], u[7] = raw[7], raw[6]
	copy(u[8:], raw[8:])
	return &u
}
