package smbios

import "fmt"

// StructureType is the type byte of an SMBIOS structure header.
type StructureType uint8

// SMBIOS structure types as defined by DMTF DSP0134.
const (
	TypeFirmwareInformation StructureType = iota
	TypeSystemInformation
	TypeBaseboardInformation
	TypeSystemEnclosure
	TypeProcessorInformation
	TypeMemoryControllerInformation
	TypeMemoryModuleInformation
	TypeCacheInformation
	TypePortConnectorInformation
	TypeSystemSlots
	TypeOnBoardDevicesInformation
	TypeOEMStrings
	TypeSystemConfigurationOptions
	TypeFirmwareLanguageInformation
	TypeGroupAssociations
	TypeSystemEventLog
	TypePhysicalMemoryArray
	TypeMemoryDevice
	TypeMemoryErrorInformation32Bit
	TypeMemoryArrayMappedAddress
	TypeMemoryDeviceMappedAddress
	TypeBuiltInPointingDevice
	TypePortableBattery
	TypeSystemReset
	TypeHardwareSecurity
	TypeSystemPowerControls
	TypeVoltageProbe
	TypeCoolingDevice
	TypeTemperatureProbe
	TypeElectricalCurrentProbe
	TypeOutOfBandRemoteAccess
	TypeBootIntegrityServicesEntryPoint
	TypeSystemBootInformation
	TypeMemoryErrorInformation64Bit
	TypeManagementDevice
	TypeManagementDeviceComponent
	TypeManagementDeviceThresholdData
	TypeMemoryChannel
	TypeIPMIDeviceInformation
	TypeSystemPowerSupply
	TypeAdditionalInformation
	TypeOnboardDevicesExtendedInformation
	TypeManagementControllerHostInterface
	TypeTPMDevice
	TypeProcessorAdditionalInformation
	TypeFirmwareInventoryInformation
	TypeStringProperty

	TypeInactive   StructureType = 126
	TypeEndOfTable StructureType = 127
)

var typeNames = map[StructureType]string{
	TypeFirmwareInformation:               "Firmware Information",
	TypeSystemInformation:                 "System Information",
	TypeBaseboardInformation:              "Baseboard Information",
	TypeSystemEnclosure:                   "System Enclosure",
	TypeProcessorInformation:              "Processor Information",
	TypeMemoryControllerInformation:       "Memory Controller Information",
	TypeMemoryModuleInformation:           "Memory Module Information",
	TypeCacheInformation:                  "Cache Information",
	TypePortConnectorInformation:          "Port Connector Information",
	TypeSystemSlots:                       "System Slots",
	TypeOnBoardDevicesInformation:         "On Board Devices Information",
	TypeOEMStrings:                        "OEM Strings",
	TypeSystemConfigurationOptions:        "System Configuration Options",
	TypeFirmwareLanguageInformation:       "Firmware Language Information",
	TypeGroupAssociations:                 "Group Associations",
	TypeSystemEventLog:                    "System Event Log",
	TypePhysicalMemoryArray:               "Physical Memory Array",
	TypeMemoryDevice:                      "Memory Device",
	TypeMemoryErrorInformation32Bit:       "32-Bit Memory Error Information",
	TypeMemoryArrayMappedAddress:          "Memory Array Mapped Address",
	TypeMemoryDeviceMappedAddress:         "Memory Device Mapped Address",
	TypeBuiltInPointingDevice:             "Built-in Pointing Device",
	TypePortableBattery:                   "Portable Battery",
	TypeSystemReset:                       "System Reset",
	TypeHardwareSecurity:                  "Hardware Security",
	TypeSystemPowerControls:               "System Power Controls",
	TypeVoltageProbe:                      "Voltage Probe",
	TypeCoolingDevice:                     "Cooling Device",
	TypeTemperatureProbe:                  "Temperature Probe",
	TypeElectricalCurrentProbe:            "Electrical Current Probe",
	TypeOutOfBandRemoteAccess:             "Out-of-Band Remote Access",
	TypeBootIntegrityServicesEntryPoint:   "Boot Integrity Services Entry Point",
	TypeSystemBootInformation:             "System Boot Information",
	TypeMemoryErrorInformation64Bit:       "64-Bit Memory Error Information",
	TypeManagementDevice:                  "Management Device",
	TypeManagementDeviceComponent:         "Management Device Component",
	TypeManagementDeviceThresholdData:     "Management Device Threshold Data",
	TypeMemoryChannel:                     "Memory Channel",
	TypeIPMIDeviceInformation:             "IPMI Device Information",
	TypeSystemPowerSupply:                 "System Power Supply",
	TypeAdditionalInformation:             "Additional Information",
	TypeOnboardDevicesExtendedInformation: "Onboard Devices Extended Information",
	TypeManagementControllerHostInterface: "Management Controller Host Interface",
	TypeTPMDevice:                         "TPM Device",
	TypeProcessorAdditionalInformation:    "Processor Additional Information",
	TypeFirmwareInventoryInformation:      "Firmware Inventory Information",
	TypeStringProperty:                    "String Property",
	TypeInactive:                          "Inactive",
	TypeEndOfTable:                        "End Of Table",
}

func (t StructureType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	if t >= 128 {
		return fmt.Sprintf("OEM-specific (%d)", uint8(t))
	}
	return fmt.Sprintf("Unknown (%d)", uint8(t))
}

// Header is the fixed four byte prefix shared by all structures.
type Header struct {
	Type   StructureType `json:"type" yaml:"type"`
	Length uint8         `json:"length" yaml:"length"`
	Handle uint16        `json:"handle" yaml:"handle"`
}

// StructureHeader returns h. Records embed Header, which makes them satisfy Structure.
func (h Header) StructureHeader() Header { return h }

// Structure is implemented by every decoded record.
type Structure interface {
	StructureHeader() Header
}

// Position locates one structure inside a raw table.
type Position struct {
	Offset int
	Length uint8
}
