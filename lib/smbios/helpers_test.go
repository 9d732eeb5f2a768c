package smbios

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

// tableBuilder assembles raw tables for tests: the eight byte header followed
// by structures with their string sets.
type tableBuilder struct {
	major, minor, rev uint8
	body              []byte
	offsets           []int
}

func newTable(major, minor uint8) *tableBuilder {
	return &tableBuilder{major: major, minor: minor}
}

// add appends a structure. formatted is everything after the four byte header.
func (b *tableBuilder) add(typ StructureType, handle uint16, formatted []byte, strs ...string) *tableBuilder {
	b.offsets = append(b.offsets, tableHeaderLen+len(b.body))

	hdr := []byte{byte(typ), byte(structureHeaderLen + len(formatted)), 0, 0}
	binary.LittleEndian.PutUint16(hdr[2:], handle)
	b.body = append(b.body, hdr...)
	b.body = append(b.body, formatted...)

	if len(strs) == 0 {
		b.body = append(b.body, 0, 0)
		return b
	}
	for _, s := range strs {
		b.body = append(b.body, s...)
		b.body = append(b.body, 0)
	}
	b.body = append(b.body, 0)
	return b
}

// raw appends bytes verbatim.
func (b *tableBuilder) raw(data ...byte) *tableBuilder {
	b.body = append(b.body, data...)
	return b
}

func (b *tableBuilder) build() []byte {
	buf := make([]byte, tableHeaderLen, tableHeaderLen+len(b.body))
	buf[1], buf[2], buf[3] = b.major, b.minor, b.rev
	binary.LittleEndian.PutUint32(buf[4:], uint32(len(b.body)))
	return append(buf, b.body...)
}

// formatted returns a zeroed formatted area for a structure of the given total
// length.
func formatted(length int) []byte {
	return make([]byte, length-structureHeaderLen)
}

// setAt writes data at a structure-relative offset of a formatted area.
func setAt(f []byte, offset int, data ...byte) {
	copy(f[offset-structureHeaderLen:], data)
}

func setWord(f []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(f[offset-structureHeaderLen:], v)
}

func setQword(f []byte, offset int, v uint64) {
	binary.LittleEndian.PutUint64(f[offset-structureHeaderLen:], v)
}

// only returns the single position of typ in buf.
func only(t *testing.T, buf []byte, typ StructureType) Position {
	t.Helper()
	positions, err := FindOffsets(buf, typ)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	return positions[0]
}
