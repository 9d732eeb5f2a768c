package ipmi

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/u-root/u-root/pkg/ipmi"
)

type fakeDevice struct {
	lan    map[byte][]byte
	lanErr error
	devID  *ipmi.DevID
	closed bool
}

func (f *fakeDevice) GetLanConfig(channel byte, param byte) ([]byte, error) {
	if f.lanErr != nil {
		return nil, f.lanErr
	}
	return f.lan[param], nil
}

func (f *fakeDevice) GetDeviceID() (*ipmi.DevID, error) {
	if f.devID == nil {
		return nil, errors.New("no response")
	}
	return f.devID, nil
}

func (f *fakeDevice) Close() error {
	f.closed = true
	return nil
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		lan: map[byte][]byte{
			paramIPAddress:  {0x00, 0x11, 10, 0, 12, 34},
			paramMACAddress: {0x00, 0x11, 0xb4, 0x7a, 0xf1, 0x00, 0x0c, 0xde},
			paramSubnetMask: {0x00, 0x11, 255, 255, 255, 0},
		},
		devID: &ipmi.DevID{
			DeviceID:       0x20,
			DeviceRevision: 0x81,
			FwRev1:         0x82,
			FwRev2:         0x10,
			IpmiVersion:    0x02,
			ManufacturerID: [3]byte{0xA2, 0x02, 0x00},
			ProductID:      [2]byte{0x00, 0x01},
		},
	}
}

func readerFor(dev Device) *Reader {
	logger, _ := test.NewNullLogger()
	return &Reader{
		Log:     logger,
		Channel: 1,
		open:    func() (Device, error) { return dev, nil },
	}
}

func TestRead(t *testing.T) {
	dev := newFakeDevice()

	bmc, err := readerFor(dev).Read()
	require.NoError(t, err)

	assert.Equal(t, BmcInfo{
		DeviceID:  "32",
		DeviceRev: "1",
		FwRev:     "2.10",
		IpmiVer:   "2.0",
		ManID:     "674 (0x02A2)",
		ProdID:    "256 (0x0100)",
		Ipaddr:    "10.0.12.34",
		Subnet:    "255.255.255.0",
		Macaddr:   "b4:7a:f1:00:0c:de",
	}, bmc)
	assert.True(t, dev.closed)
}

func TestReadLanError(t *testing.T) {
	dev := newFakeDevice()
	dev.lanErr = errors.New("timeout")

	_, err := readerFor(dev).Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IP address")
	assert.True(t, dev.closed)
}

func TestReadDeviceIDError(t *testing.T) {
	dev := newFakeDevice()
	dev.devID = nil

	_, err := readerFor(dev).Read()
	assert.Error(t, err)
}

func TestReadOpenError(t *testing.T) {
	r := readerFor(nil)
	r.open = func() (Device, error) { return nil, errors.New("no such device") }

	_, err := r.Read()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open ipmi device")
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "Unknown", formatIPv4([]byte{0, 0x11, 10}))
	assert.Equal(t, "Unknown", formatMAC(nil))
	assert.Equal(t, "1.05", formatFirmwareRevision(0xC1, 0x05))
	assert.Equal(t, "1.5", formatIPMIVersion(0x51))
	assert.Equal(t, "0 (0x0000)", manufacturerID([3]byte{}))
	assert.Equal(t, "4660 (0x1234)", productID([2]byte{0x34, 0x12}))
}
