package smbios

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enclosureStrings = []string{"Dell Inc.", "1.0", "SN123", "Asset-42", "SKU-9"}

// enclosureArea returns a type 3 formatted area with the string fields set
// and a locked rack mount chassis.
func enclosureArea(length int) []byte {
	f := formatted(length)
	setAt(f, 0x04, 1, 0x80|byte(ChassisRackMount), 2, 3, 4)
	return f
}

func TestDecodeSystemEnclosure(t *testing.T) {
	f := enclosureArea(30)
	setAt(f, 0x09, byte(StateSafe), byte(StateSafe), byte(StateWarning), byte(SecurityNone))
	setAt(f, 0x0D, 0x04, 0x03, 0x02, 0x01)
	setAt(f, 0x11, 6, 2, 2, 3)
	setAt(f, 0x15,
		byte(TypeProcessorInformation), 1, 2,
		0x80|byte(BoardServerBlade), 0xFF, 0,
	)
	setAt(f, 0x1B, 5, byte(RackOU), 0x16)
	buf := newTable(3, 4).add(TypeSystemEnclosure, 0x0300, f, enclosureStrings...).build()

	enc, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
	require.NoError(t, err)

	assert.Equal(t, uint8(30), enc.Length)
	assert.Equal(t, "Dell Inc.", *enc.Manufacturer)
	assert.Equal(t, "1.0", *enc.Version)
	assert.Equal(t, "SN123", *enc.SerialNumber)
	assert.Equal(t, "Asset-42", *enc.AssetTag)

	assert.Equal(t, ChassisRackMount, enc.ChassisType())
	assert.True(t, enc.TypeAndLock.Locked())
	assert.True(t, enc.IsRackMount())
	assert.True(t, enc.IsServerChassis())
	assert.False(t, enc.IsPortable())

	assert.Equal(t, StateSafe, *enc.BootUpState)
	assert.Equal(t, StateWarning, *enc.ThermalState)
	assert.Equal(t, SecurityNone, *enc.SecurityStatus)
	assert.Equal(t, uint32(0x01020304), *enc.OEMDefined)
	assert.Equal(t, uint8(6), *enc.Height)
	assert.Equal(t, uint8(2), *enc.PowerCords)

	assert.Equal(t, uint8(2), enc.ContainedElementCount)
	assert.Equal(t, uint8(3), enc.ContainedElementRecordLength)
	require.Len(t, enc.ContainedElements, 2)
	require.Len(t, enc.ContainedElementRecords, 2)

	proc := enc.ContainedElements[0]
	assert.True(t, proc.IsStructureType())
	assert.Equal(t, TypeProcessorInformation, *proc.StructureType())
	assert.Nil(t, proc.BaseboardType())
	assert.Equal(t, uint8(1), *proc.Minimum())
	assert.Equal(t, uint8(2), *proc.Maximum())
	assert.True(t, proc.RangeValid())

	blade := enc.ContainedElements[1]
	assert.False(t, blade.IsStructureType())
	assert.Nil(t, blade.StructureType())
	assert.Equal(t, BoardServerBlade, *blade.BaseboardType())
	assert.Nil(t, blade.Minimum())
	assert.Nil(t, blade.Maximum())
	assert.False(t, blade.RangeValid())
	assert.Equal(t, "Server Blade", blade.String())

	assert.Equal(t, "SKU-9", *enc.SKUNumber)
	assert.Equal(t, RackOU, *enc.RackType)
	assert.Equal(t, uint8(0x16), *enc.RackHeight)
	assert.Equal(t, uint8(6), *enc.RackUnits())
	assert.Equal(t, "Dell Inc. Rack Mount Chassis (SN123)", enc.String())
}

func TestDecodeSystemEnclosureRecordsTruncated(t *testing.T) {
	// three records announced, room for one
	f := enclosureArea(0x15 + 3)
	setAt(f, 0x13, 3, 3)
	setAt(f, 0x15, byte(TypeMemoryDevice), 1, 8)
	buf := newTable(3, 0).add(TypeSystemEnclosure, 0x0300, f, enclosureStrings...).build()

	enc, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
	require.NoError(t, err)

	assert.Equal(t, uint8(3), enc.ContainedElementCount)
	require.Len(t, enc.ContainedElements, 1)
	assert.Equal(t, TypeMemoryDevice, *enc.ContainedElements[0].StructureType())
	assert.Nil(t, enc.SKUNumber)
	assert.Nil(t, enc.RackType)
	assert.Nil(t, enc.RackHeight)
}

func TestDecodeSystemEnclosureZeroRecordLength(t *testing.T) {
	// zero-length records leave no SKU field; the rack bytes are still read
	f := enclosureArea(0x15 + 3)
	setAt(f, 0x13, 2, 0)
	setAt(f, 0x15, 5, byte(RackOU), 4)
	buf := newTable(3, 0).add(TypeSystemEnclosure, 0x0300, f, enclosureStrings...).build()

	enc, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
	require.NoError(t, err)

	assert.Empty(t, enc.ContainedElements)
	assert.Nil(t, enc.SKUNumber)
	require.NotNil(t, enc.RackType)
	assert.Equal(t, RackOU, *enc.RackType)
	require.NotNil(t, enc.RackHeight)
	assert.Equal(t, uint8(4), *enc.RackHeight)
}

func TestDecodeSystemEnclosureNoRecords(t *testing.T) {
	f := enclosureArea(0x16)
	setAt(f, 0x15, 5)
	buf := newTable(2, 7).add(TypeSystemEnclosure, 0x0300, f, enclosureStrings...).build()

	enc, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
	require.NoError(t, err)

	assert.Empty(t, enc.ContainedElements)
	assert.Equal(t, "SKU-9", *enc.SKUNumber)
	assert.Nil(t, enc.RackType)
	assert.Nil(t, enc.RackHeight)
}

func TestDecodeSystemEnclosureMinimal(t *testing.T) {
	buf := newTable(2, 0).add(TypeSystemEnclosure, 0x0300, enclosureArea(MinEnclosureLength), enclosureStrings...).build()

	enc, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
	require.NoError(t, err)

	assert.Equal(t, "Asset-42", *enc.AssetTag)
	assert.Nil(t, enc.BootUpState)
	assert.Nil(t, enc.SecurityStatus)
	assert.Nil(t, enc.OEMDefined)
	assert.Nil(t, enc.Height)
	assert.Nil(t, enc.RackUnits())
	assert.Zero(t, enc.ContainedElementCount)
	assert.Nil(t, enc.SKUNumber)
}

func TestDecodeSystemEnclosureUnspecifiedValues(t *testing.T) {
	tests := []struct {
		name   string
		height byte
		cords  byte
	}{
		{"zero", 0, 0},
		{"unknown height", 0xFF, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := enclosureArea(0x15)
			setAt(f, 0x11, tt.height, tt.cords)
			buf := newTable(2, 7).add(TypeSystemEnclosure, 0x0300, f, enclosureStrings...).build()

			enc, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
			require.NoError(t, err)
			assert.Nil(t, enc.Height)
			assert.Nil(t, enc.PowerCords)
		})
	}
}

func TestDecodeSystemEnclosureTooShort(t *testing.T) {
	buf := newTable(2, 0).add(TypeSystemEnclosure, 0x0300, formatted(8)).build()

	_, err := DecodeSystemEnclosure(buf, only(t, buf, TypeSystemEnclosure))
	require.Error(t, err)

	var short *StructureTooShortError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, MinEnclosureLength, short.Required)
}

func TestChassisType(t *testing.T) {
	assert.True(t, ChassisNotebook.IsPortable())
	assert.False(t, ChassisNotebook.IsServer())
	assert.True(t, ChassisBlade.IsServer())
	assert.False(t, ChassisBlade.IsRackMount())
	assert.Equal(t, "Blade Enclosing", ChassisBladeEnclosure.String())
	assert.Equal(t, "Unknown (0x7F)", ChassisType(0x7F).String())
}

func TestContainedElementRangeValid(t *testing.T) {
	tests := []struct {
		name     string
		min, max uint8
		want     bool
	}{
		{"ordered", 1, 4, true},
		{"equal", 2, 2, true},
		{"reversed", 4, 1, false},
		{"min unspecified", 0xFF, 4, false},
		{"max unspecified", 1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ContainedElement{RawType: byte(TypeProcessorInformation), RawMinimum: tt.min, RawMaximum: tt.max}
			assert.Equal(t, tt.want, c.RangeValid())
		})
	}
}
