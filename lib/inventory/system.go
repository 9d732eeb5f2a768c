package inventory

import (
	"github.com/iglov/smbios-agent/lib/smbios"
)

// SystemInfo holds the details of the system.
type SystemInfo struct {
	Manufacturer      string `json:"manufacturer" yaml:"manufacturer"`
	ProductName       string `json:"product_name" yaml:"product_name"`
	Version           string `json:"version" yaml:"version"`
	SerialNumber      string `json:"serial_number" yaml:"serial_number"`
	UUID              string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	SKUNumber         string `json:"sku_number,omitempty" yaml:"sku_number,omitempty"`
	Family            string `json:"family,omitempty" yaml:"family,omitempty"`
	WakeUpType        string `json:"wake_up_type" yaml:"wake_up_type"`
	LocationInChassis string `json:"location_in_chassis" yaml:"location_in_chassis"`
}

// NewSystemInfo converts a decoded system information structure. The
// location in chassis comes from the baseboard and is filled by the Collector.
func NewSystemInfo(sys *smbios.SystemInformation) SystemInfo {
	info := SystemInfo{
		Manufacturer: firstWord(value(sys.Manufacturer)),
		ProductName:  value(sys.ProductName),
		Version:      value(sys.Version),
		SerialNumber: value(sys.SerialNumber),
		SKUNumber:    value(sys.SKUNumber),
		Family:       value(sys.Family),
		WakeUpType:   sys.WakeUpType.String(),
	}
	if sys.UUID != nil {
		info.UUID = sys.UUID.String()
	}

	return info
}
