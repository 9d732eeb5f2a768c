package smbios

import (
	"fmt"
	"strings"
)

// System enclosure (type 3) layout up to the contained element records.
// Everything after the records (SKU number, rack type, rack height) sits at an
// offset that depends on the record count and length.
var (
	encManufacturer     = Field{Name: "Manufacturer", Offset: 0x04, Size: 1}
	encTypeAndLock      = Field{Name: "Type", Offset: 0x05, Size: 1}
	encVersion          = Field{Name: "Version", Offset: 0x06, Size: 1}
	encSerialNumber     = Field{Name: "SerialNumber", Offset: 0x07, Size: 1}
	encAssetTag         = Field{Name: "AssetTag", Offset: 0x08, Size: 1}
	encBootUpState      = Field{Name: "BootUpState", Offset: 0x09, Size: 1}
	encPowerSupplyState = Field{Name: "PowerSupplyState", Offset: 0x0A, Size: 1}
	encThermalState     = Field{Name: "ThermalState", Offset: 0x0B, Size: 1}
	encSecurityStatus   = Field{Name: "SecurityStatus", Offset: 0x0C, Size: 1}
	encOEMDefined       = Field{Name: "OEMDefined", Offset: 0x0D, Size: 4}
	encHeight           = Field{Name: "Height", Offset: 0x11, Size: 1}
	encPowerCords       = Field{Name: "NumberOfPowerCords", Offset: 0x12, Size: 1}
	encElementCount     = Field{Name: "ContainedElementCount", Offset: 0x13, Size: 1}
	encElementLength    = Field{Name: "ContainedElementRecordLength", Offset: 0x14, Size: 1}
)

// EnclosureFields is the fixed part of the system enclosure layout.
var EnclosureFields = []Field{
	encManufacturer, encTypeAndLock, encVersion, encSerialNumber, encAssetTag,
	encBootUpState, encPowerSupplyState, encThermalState, encSecurityStatus,
	encOEMDefined, encHeight, encPowerCords, encElementCount, encElementLength,
}

// MinEnclosureLength is the shortest valid system enclosure structure.
const MinEnclosureLength = 9

// containedElementsOffset is where the contained element records start.
const containedElementsOffset = 0x15

// SystemEnclosure is the decoded system enclosure or chassis structure (type 3).
type SystemEnclosure struct {
	Header

	Manufacturer     *string              `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	TypeAndLock      EnclosureTypeAndLock `json:"type_and_lock" yaml:"type_and_lock"`
	Version          *string              `json:"version,omitempty" yaml:"version,omitempty"`
	SerialNumber     *string              `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	AssetTag         *string              `json:"asset_tag,omitempty" yaml:"asset_tag,omitempty"`
	BootUpState      *ChassisState        `json:"boot_up_state,omitempty" yaml:"boot_up_state,omitempty"`
	PowerSupplyState *ChassisState        `json:"power_supply_state,omitempty" yaml:"power_supply_state,omitempty"`
	ThermalState     *ChassisState        `json:"thermal_state,omitempty" yaml:"thermal_state,omitempty"`
	SecurityStatus   *SecurityStatus      `json:"security_status,omitempty" yaml:"security_status,omitempty"`
	OEMDefined       *uint32              `json:"oem_defined,omitempty" yaml:"oem_defined,omitempty"`
	Height           *uint8               `json:"height,omitempty" yaml:"height,omitempty"`
	PowerCords       *uint8               `json:"power_cords,omitempty" yaml:"power_cords,omitempty"`

	// ContainedElementCount and ContainedElementRecordLength are the raw
	// header values; ContainedElements holds only the records that fit.
	ContainedElementCount        uint8              `json:"contained_element_count" yaml:"contained_element_count"`
	ContainedElementRecordLength uint8              `json:"contained_element_record_length" yaml:"contained_element_record_length"`
	ContainedElementRecords      [][]byte           `json:"-" yaml:"-"`
	ContainedElements            []ContainedElement `json:"contained_elements,omitempty" yaml:"contained_elements,omitempty"`

	SKUNumber  *string   `json:"sku_number,omitempty" yaml:"sku_number,omitempty"`
	RackType   *RackType `json:"rack_type,omitempty" yaml:"rack_type,omitempty"`
	RackHeight *uint8    `json:"rack_height,omitempty" yaml:"rack_height,omitempty"`
}

// DecodeSystemEnclosure decodes the type 3 structure at pos.
func DecodeSystemEnclosure(buf []byte, pos Position) (*SystemEnclosure, error) {
	r, err := newRecord(buf, pos, TypeSystemEnclosure, MinEnclosureLength)
	if err != nil {
		return nil, err
	}

	typeAndLock, _ := r.byteAt(encTypeAndLock)
	enc := &SystemEnclosure{
		Header:           r.header(),
		Manufacturer:     r.str(encManufacturer),
		TypeAndLock:      EnclosureTypeAndLock{Raw: typeAndLock},
		Version:          r.str(encVersion),
		SerialNumber:     r.str(encSerialNumber),
		AssetTag:         r.str(encAssetTag),
		BootUpState:      chassisState(r.byteAt(encBootUpState)),
		PowerSupplyState: chassisState(r.byteAt(encPowerSupplyState)),
		ThermalState:     chassisState(r.byteAt(encThermalState)),
		OEMDefined:       optional32(r.dword(encOEMDefined)),
		Height:           specified8(r.byteAt(encHeight)),
		PowerCords:       nonZero8(r.byteAt(encPowerCords)),
	}
	if status, ok := r.byteAt(encSecurityStatus); ok {
		s := SecurityStatus(status)
		enc.SecurityStatus = &s
	}

	// count and record length were added together
	if r.has(encElementLength) {
		enc.ContainedElementCount, _ = r.byteAt(encElementCount)
		enc.ContainedElementRecordLength, _ = r.byteAt(encElementLength)
	}

	count := int(enc.ContainedElementCount)
	size := int(enc.ContainedElementRecordLength)
	tail := containedElementsOffset
	if count > 0 && size > 0 && r.length > containedElementsOffset {
		available := r.length - containedElementsOffset
		n := min(count, available/size)
		for i := 0; i < n; i++ {
			start := r.offset + containedElementsOffset + i*size
			raw := make([]byte, size)
			copy(raw, r.buf[start:start+size])
			enc.ContainedElementRecords = append(enc.ContainedElementRecords, raw)
			if size >= 3 {
				enc.ContainedElements = append(enc.ContainedElements, ContainedElement{
					RawType:    raw[0],
					RawMinimum: raw[1],
					RawMaximum: raw[2],
				})
			}
		}
		tail += min(count*size, available)
	}

	// A non-zero count with zero-length records means there is no SKU field,
	// which is different from a SKU index of 0. Rack type and height still
	// follow at their usual place.
	if count == 0 || size > 0 {
		if sku, ok := r.byteAt(Field{Name: "SKUNumber", Offset: tail, Size: 1}); ok {
			enc.SKUNumber = r.stringAt(sku)
		}
	}
	if rack, ok := r.byteAt(Field{Name: "RackType", Offset: tail + 1, Size: 1}); ok {
		t := RackType(rack)
		enc.RackType = &t
	}
	enc.RackHeight = optional8(r.byteAt(Field{Name: "RackHeight", Offset: tail + 2, Size: 1}))

	return enc, nil
}

func chassisState(v uint8, ok bool) *ChassisState {
	if !ok {
		return nil
	}
	s := ChassisState(v)
	return &s
}

// ChassisType returns the enclosure's chassis type.
func (e *SystemEnclosure) ChassisType() ChassisType {
	return e.TypeAndLock.Type()
}

// IsPortable reports laptop-like enclosures.
func (e *SystemEnclosure) IsPortable() bool { return e.ChassisType().IsPortable() }

// IsServerChassis reports server, rack and blade enclosures.
func (e *SystemEnclosure) IsServerChassis() bool { return e.ChassisType().IsServer() }

// IsRackMount reports enclosures that mount directly into a rack.
func (e *SystemEnclosure) IsRackMount() bool { return e.ChassisType().IsRackMount() }

// RackUnits returns the enclosure height in rack units. Height wins over the
// rack height field when both are present.
func (e *SystemEnclosure) RackUnits() *uint8 {
	if e.Height != nil {
		return e.Height
	}
	return e.RackHeight
}

func (e *SystemEnclosure) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s (%s)", deref(e.Manufacturer), e.ChassisType(), deref(e.SerialNumber)))
}
