package ipmi

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/u-root/u-root/pkg/ipmi"
)

// BmcInfo holds the BMC identity and its LAN settings.
type BmcInfo struct {
	DeviceID  string `json:"deviceID" yaml:"device_id"`
	DeviceRev string `json:"deviceRevision" yaml:"device_revision"`
	FwRev     string `json:"firmwareRevision" yaml:"firmware_revision"`
	IpmiVer   string `json:"ipmiVersion" yaml:"ipmi_version"`
	ManID     string `json:"manufacturerID" yaml:"manufacturer_id"`
	ProdID    string `json:"productID" yaml:"product_id"`
	Ipaddr    string `json:"ipAddress" yaml:"ip_address"`
	Subnet    string `json:"subnetMask" yaml:"subnet_mask"`
	Macaddr   string `json:"macAddress" yaml:"mac_address"`
}

// LAN configuration parameters.
const (
	setInProgress byte = iota
	_
	_
	paramIPAddress
	paramIPAddressSrc
	paramMACAddress
	paramSubnetMask
)

// unknown is reported for values the BMC answered in an unexpected shape.
const unknown = "Unknown"

// Device is the part of the u-root IPMI handle the reader needs.
type Device interface {
	GetLanConfig(channel byte, param byte) ([]byte, error)
	GetDeviceID() (*ipmi.DevID, error)
	Close() error
}

// Reader reads BMC information over the local IPMI interface.
type Reader struct {
	Log     logrus.FieldLogger
	Channel byte

	open func() (Device, error)
}

// NewReader creates a reader for IPMI device 0, LAN channel 1.
func NewReader(log logrus.FieldLogger) *Reader {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Reader{
		Log:     log,
		Channel: 1,
		open: func() (Device, error) {
			return ipmi.Open(0)
		},
	}
}

// ReadBMC is a shortcut for NewReader(log).Read().
func ReadBMC(log logrus.FieldLogger) (BmcInfo, error) {
	return NewReader(log).Read()
}

// Read collects the device ID and LAN configuration.
func (r *Reader) Read() (BmcInfo, error) {
	dev, err := r.open()
	if err != nil {
		return BmcInfo{}, errors.Wrap(err, "failed to open ipmi device")
	}
	defer func() {
		if err := dev.Close(); err != nil {
			r.Log.WithError(err).Warn("failed to close ipmi device")
		}
	}()

	bmc := BmcInfo{}
	if err := r.lanConfig(dev, &bmc); err != nil {
		return BmcInfo{}, err
	}
	if err := deviceInfo(dev, &bmc); err != nil {
		return BmcInfo{}, err
	}

	r.Log.WithFields(logrus.Fields{
		"ip":  bmc.Ipaddr,
		"mac": bmc.Macaddr,
	}).Debug("read BMC information")

	return bmc, nil
}

// data 1   completion code
// data 2   parameter revision, 0x11
// data 3:N data
func (r *Reader) lanConfig(dev Device, bmc *BmcInfo) error {
	ip, err := dev.GetLanConfig(r.Channel, paramIPAddress)
	if err != nil {
		return errors.Wrap(err, "could not get an IP address")
	}
	bmc.Ipaddr = formatIPv4(ip)

	mac, err := dev.GetLanConfig(r.Channel, paramMACAddress)
	if err != nil {
		return errors.Wrap(err, "could not get a MAC address")
	}
	bmc.Macaddr = formatMAC(mac)

	mask, err := dev.GetLanConfig(r.Channel, paramSubnetMask)
	if err != nil {
		return errors.Wrap(err, "could not get a subnet mask")
	}
	bmc.Subnet = formatIPv4(mask)

	return nil
}

func deviceInfo(dev Device, bmc *BmcInfo) error {
	info, err := dev.GetDeviceID()
	if err != nil {
		return errors.Wrap(err, "failed to get device ID information")
	}

	bmc.DeviceID = fmt.Sprintf("%d", info.DeviceID)
	bmc.DeviceRev = fmt.Sprintf("%d", info.DeviceRevision&0x0F)
	bmc.FwRev = formatFirmwareRevision(info.FwRev1, info.FwRev2)
	bmc.IpmiVer = formatIPMIVersion(info.IpmiVersion)
	bmc.ManID = manufacturerID(info.ManufacturerID)
	bmc.ProdID = productID(info.ProductID)

	return nil
}

func formatIPv4(data []byte) string {
	if len(data) != 6 {
		return unknown
	}
	return fmt.Sprintf("%d.%d.%d.%d", data[2], data[3], data[4], data[5])
}

func formatMAC(data []byte) string {
	if len(data) != 8 {
		return unknown
	}
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", data[2], data[3], data[4], data[5], data[6], data[7])
}

func formatFirmwareRevision(rev1, rev2 byte) string {
	return fmt.Sprintf("%d.%02x", rev1&0x3F, rev2)
}

// IPMI keeps the least significant digit in the high nibble.
func formatIPMIVersion(v byte) string {
	return fmt.Sprintf("%x.%x", v&0x0F, (v&0xF0)>>4)
}

func manufacturerID(id [3]byte) string {
	mid := uint32(id[2])<<16 | uint32(id[1])<<8 | uint32(id[0])
	return fmt.Sprintf("%d (0x%04X)", mid, mid)
}

func productID(id [2]byte) string {
	pid := uint16(id[1])<<8 | uint16(id[0])
	return fmt.Sprintf("%d (0x%04X)", pid, pid)
}
