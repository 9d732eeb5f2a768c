package smbios

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// System information (type 1) layout.
var (
	sysManufacturer = Field{Name: "Manufacturer", Offset: 0x04, Size: 1}
	sysProductName  = Field{Name: "ProductName", Offset: 0x05, Size: 1}
	sysVersion      = Field{Name: "Version", Offset: 0x06, Size: 1}
	sysSerialNumber = Field{Name: "SerialNumber", Offset: 0x07, Size: 1}
	sysUUID         = Field{Name: "UUID", Offset: 0x08, Size: 16}
	sysWakeUpType   = Field{Name: "WakeUpType", Offset: 0x18, Size: 1}
	sysSKUNumber    = Field{Name: "SKUNumber", Offset: 0x19, Size: 1}
	sysFamily       = Field{Name: "Family", Offset: 0x1A, Size: 1}
)

// SystemFields is the layout of the system information structure.
var SystemFields = []Field{
	sysManufacturer, sysProductName, sysVersion, sysSerialNumber,
	sysUUID, sysWakeUpType, sysSKUNumber, sysFamily,
}

// MinSystemLength is the shortest valid system information structure.
const MinSystemLength = 8

// WakeUpType identifies the event that last powered the system on.
type WakeUpType uint8

// Wake-up types.
const (
	WakeUpReserved WakeUpType = iota
	WakeUpOther
	WakeUpUnknown
	WakeUpAPMTimer
	WakeUpModemRing
	WakeUpLANRemote
	WakeUpPowerSwitch
	WakeUpPCIPME
	WakeUpACPowerRestored
)

var wakeUpNames = [...]string{
	"Reserved",
	"Other",
	"Unknown",
	"APM Timer",
	"Modem Ring",
	"LAN Remote",
	"Power Switch",
	"PCI PME#",
	"AC Power Restored",
}

func (w WakeUpType) String() string {
	if int(w) < len(wakeUpNames) {
		return wakeUpNames[w]
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(w))
}

// SystemInformation is the decoded system information structure (type 1).
type SystemInformation struct {
	Header

	Manufacturer *string    `json:"manufacturer,omitempty" yaml:"manufacturer,omitempty"`
	ProductName  *string    `json:"product_name,omitempty" yaml:"product_name,omitempty"`
	Version      *string    `json:"version,omitempty" yaml:"version,omitempty"`
	SerialNumber *string    `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`
	UUID         *uuid.UUID `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	WakeUpType   WakeUpType `json:"wake_up_type" yaml:"wake_up_type"`
	SKUNumber    *string    `json:"sku_number,omitempty" yaml:"sku_number,omitempty"`
	Family       *string    `json:"family,omitempty" yaml:"family,omitempty"`
}

// DecodeSystemInformation decodes the type 1 structure at pos.
func DecodeSystemInformation(buf []byte, pos Position) (*SystemInformation, error) {
	r, err := newRecord(buf, pos, TypeSystemInformation, MinSystemLength)
	if err != nil {
		return nil, err
	}

	sys := &SystemInformation{
		Header:       r.header(),
		Manufacturer: r.str(sysManufacturer),
		ProductName:  r.str(sysProductName),
		Version:      r.str(sysVersion),
		SerialNumber: r.str(sysSerialNumber),
		UUID:         uuidOrNil(r.span(sysUUID)),
		WakeUpType:   WakeUpUnknown,
		SKUNumber:    r.str(sysSKUNumber),
		Family:       r.str(sysFamily),
	}
	if wake, ok := r.byteAt(sysWakeUpType); ok {
		sys.WakeUpType = WakeUpType(wake)
	}

	return sys, nil
}

func (s *SystemInformation) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s (%s)", deref(s.Manufacturer), deref(s.ProductName), deref(s.SerialNumber)))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
