package smbios

import "fmt"

// ChassisType is the 7-bit enclosure type.
type ChassisType uint8

// Chassis types.
const (
	ChassisOther ChassisType = iota + 1
	ChassisUnknown
	ChassisDesktop
	ChassisLowProfileDesktop
	ChassisPizzaBox
	ChassisMiniTower
	ChassisTower
	ChassisPortable
	ChassisLaptop
	ChassisNotebook
	ChassisHandHeld
	ChassisDockingStation
	ChassisAllInOne
	ChassisSubNotebook
	ChassisSpaceSaving
	ChassisLunchBox
	ChassisMainServer
	ChassisExpansion
	ChassisSubChassis
	ChassisBusExpansion
	ChassisPeripheral
	ChassisRAID
	ChassisRackMount
	ChassisSealedCasePC
	ChassisMultiSystem
	ChassisCompactPCI
	ChassisAdvancedTCA
	ChassisBlade
	ChassisBladeEnclosure
	ChassisTablet
	ChassisConvertible
	ChassisDetachable
	ChassisIoTGateway
	ChassisEmbeddedPC
	ChassisMiniPC
	ChassisStickPC
)

var chassisNames = map[ChassisType]string{
	ChassisOther:             "Other",
	ChassisUnknown:           "Unknown",
	ChassisDesktop:           "Desktop",
	ChassisLowProfileDesktop: "Low Profile Desktop",
	ChassisPizzaBox:          "Pizza Box",
	ChassisMiniTower:         "Mini Tower",
	ChassisTower:             "Tower",
	ChassisPortable:          "Portable",
	ChassisLaptop:            "Laptop",
	ChassisNotebook:          "Notebook",
	ChassisHandHeld:          "Hand Held",
	ChassisDockingStation:    "Docking Station",
	ChassisAllInOne:          "All In One",
	ChassisSubNotebook:       "Sub Notebook",
	ChassisSpaceSaving:       "Space-saving",
	ChassisLunchBox:          "Lunch Box",
	ChassisMainServer:        "Main Server Chassis",
	ChassisExpansion:         "Expansion Chassis",
	ChassisSubChassis:        "Sub Chassis",
	ChassisBusExpansion:      "Bus Expansion Chassis",
	ChassisPeripheral:        "Peripheral Chassis",
	ChassisRAID:              "RAID Chassis",
	ChassisRackMount:         "Rack Mount Chassis",
	ChassisSealedCasePC:      "Sealed-case PC",
	ChassisMultiSystem:       "Multi-system",
	ChassisCompactPCI:        "CompactPCI",
	ChassisAdvancedTCA:       "AdvancedTCA",
	ChassisBlade:             "Blade",
	ChassisBladeEnclosure:    "Blade Enclosing",
	ChassisTablet:            "Tablet",
	ChassisConvertible:       "Convertible",
	ChassisDetachable:        "Detachable",
	ChassisIoTGateway:        "IoT Gateway",
	ChassisEmbeddedPC:        "Embedded PC",
	ChassisMiniPC:            "Mini PC",
	ChassisStickPC:           "Stick PC",
}

func (c ChassisType) String() string {
	if name, ok := chassisNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(c))
}

var (
	portableChassis = map[ChassisType]bool{
		ChassisPortable: true, ChassisLaptop: true, ChassisNotebook: true, ChassisHandHeld: true,
		ChassisSubNotebook: true, ChassisTablet: true, ChassisConvertible: true, ChassisDetachable: true,
	}
	serverChassis = map[ChassisType]bool{
		ChassisMainServer: true, ChassisRackMount: true, ChassisBladeEnclosure: true, ChassisBlade: true,
	}
	rackMountChassis = map[ChassisType]bool{
		ChassisRackMount: true, ChassisBladeEnclosure: true,
	}
)

// IsPortable reports laptop-like form factors.
func (c ChassisType) IsPortable() bool { return portableChassis[c] }

// IsServer reports server form factors, rack and blade included.
func (c ChassisType) IsServer() bool { return serverChassis[c] }

// IsRackMount reports chassis that mount directly into a rack.
func (c ChassisType) IsRackMount() bool { return rackMountChassis[c] }

// EnclosureTypeAndLock is the enclosure type byte: bit 7 is the chassis lock,
// bits 6:0 the chassis type.
type EnclosureTypeAndLock struct {
	Raw uint8 `json:"raw" yaml:"raw"`
}

// Type returns the chassis type.
func (e EnclosureTypeAndLock) Type() ChassisType {
	return ChassisType(e.Raw & 0x7F)
}

// Locked reports whether a chassis lock is present.
func (e EnclosureTypeAndLock) Locked() bool {
	return e.Raw&0x80 != 0
}

// ChassisState is the boot-up, power supply or thermal state of an enclosure.
type ChassisState uint8

// Chassis states.
const (
	StateOther ChassisState = iota + 1
	StateUnknown
	StateSafe
	StateWarning
	StateCritical
	StateNonRecoverable
)

func (s ChassisState) String() string {
	switch s {
	case StateOther:
		return "Other"
	case StateUnknown:
		return "Unknown"
	case StateSafe:
		return "Safe"
	case StateWarning:
		return "Warning"
	case StateCritical:
		return "Critical"
	case StateNonRecoverable:
		return "Non-recoverable"
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(s))
}

// SecurityStatus is the enclosure's physical security status.
type SecurityStatus uint8

// Security statuses.
const (
	SecurityOther SecurityStatus = iota + 1
	SecurityUnknown
	SecurityNone
	SecurityExternalInterfaceLockedOut
	SecurityExternalInterfaceEnabled
)

func (s SecurityStatus) String() string {
	switch s {
	case SecurityOther:
		return "Other"
	case SecurityUnknown:
		return "Unknown"
	case SecurityNone:
		return "None"
	case SecurityExternalInterfaceLockedOut:
		return "External Interface Locked Out"
	case SecurityExternalInterfaceEnabled:
		return "External Interface Enabled"
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(s))
}

// RackType is the rack standard the enclosure is built for.
type RackType uint8

// Rack types.
const (
	RackUnspecified RackType = iota
	RackOU
)

func (r RackType) String() string {
	switch r {
	case RackUnspecified:
		return "Unspecified"
	case RackOU:
		return "OU"
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(r))
}

// BaseboardType is the board type used by contained element records.
type BaseboardType uint8

// Baseboard types.
const (
	BoardUnknown BaseboardType = iota + 1
	BoardOther
	BoardServerBlade
	BoardConnectivitySwitch
	BoardSystemManagementModule
	BoardProcessorModule
	BoardIOModule
	BoardMemoryModule
	BoardDaughterBoard
	BoardMotherboard
	BoardProcessorMemoryModule
	BoardProcessorIOModule
	BoardInterconnect
)

var boardNames = map[BaseboardType]string{
	BoardUnknown:                "Unknown",
	BoardOther:                  "Other",
	BoardServerBlade:            "Server Blade",
	BoardConnectivitySwitch:     "Connectivity Switch",
	BoardSystemManagementModule: "System Management Module",
	BoardProcessorModule:        "Processor Module",
	BoardIOModule:               "I/O Module",
	BoardMemoryModule:           "Memory Module",
	BoardDaughterBoard:          "Daughter Board",
	BoardMotherboard:            "Motherboard",
	BoardProcessorMemoryModule:  "Processor+Memory Module",
	BoardProcessorIOModule:      "Processor+I/O Module",
	BoardInterconnect:           "Interconnect Board",
}

func (b BaseboardType) String() string {
	if name, ok := boardNames[b]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (0x%02X)", uint8(b))
}

// ContainedElement is one contained element record of an enclosure. Bit 7 of
// RawType selects between an SMBIOS structure type (clear) and a baseboard
// type (set).
type ContainedElement struct {
	RawType    uint8 `json:"raw_type" yaml:"raw_type"`
	RawMinimum uint8 `json:"raw_minimum" yaml:"raw_minimum"`
	RawMaximum uint8 `json:"raw_maximum" yaml:"raw_maximum"`
}

// IsStructureType reports whether the element names an SMBIOS structure type.
func (c ContainedElement) IsStructureType() bool {
	return c.RawType&0x80 == 0
}

// StructureType returns the contained structure type, nil for baseboard elements.
func (c ContainedElement) StructureType() *StructureType {
	if !c.IsStructureType() {
		return nil
	}
	t := StructureType(c.RawType & 0x7F)
	return &t
}

// BaseboardType returns the contained board type, nil for structure elements.
func (c ContainedElement) BaseboardType() *BaseboardType {
	if c.IsStructureType() {
		return nil
	}
	b := BaseboardType(c.RawType & 0x7F)
	return &b
}

// Minimum returns the minimum element count; 0xFF means unspecified.
func (c ContainedElement) Minimum() *uint8 {
	return notFF8(c.RawMinimum, true)
}

// Maximum returns the maximum element count; 0 and 0xFF mean unspecified.
func (c ContainedElement) Maximum() *uint8 {
	return specified8(c.RawMaximum, true)
}

// RangeValid reports a specified range with minimum not above maximum.
func (c ContainedElement) RangeValid() bool {
	lo, hi := c.Minimum(), c.Maximum()
	return lo != nil && hi != nil && *lo <= *hi
}

func (c ContainedElement) String() string {
	if t := c.StructureType(); t != nil {
		return fmt.Sprintf("%s (type %d)", t, uint8(*t))
	}
	return c.BaseboardType().String()
}
