// Package netbox registers a machine's inventory report in NetBox.
package netbox

import (
	"context"
	"fmt"
	"strings"

	"github.com/netbox-community/go-netbox/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iglov/smbios-agent/lib/inventory"
)

const (
	defaultRoleName = "default device role"
	defaultRoleSlug = "default-device-role"

	bmcInterfaceName = "IMPI"
	bmcInterfaceType = "1000base-tx"
)

// Pusher creates the NetBox objects describing one machine.
type Pusher struct {
	Client *netbox.APIClient
	Log    logrus.FieldLogger
}

// NewPusher creates a pusher for the NetBox instance at url.
func NewPusher(url, token string, log logrus.FieldLogger) *Pusher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pusher{Client: netbox.NewAPIClientFor(url, token), Log: log}
}

// Push creates the role, site, chassis, device, inventory items and BMC
// interface for hostname. Objects that already exist make their create call
// fail; those failures are logged and the push goes on.
func (p *Pusher) Push(ctx context.Context, hostname string, report *inventory.Report) error {
	site, err := SiteFromHostname(hostname)
	if err != nil {
		return err
	}
	if report.System == nil {
		return errors.New("report has no system information")
	}

	c := p.Client.DcimAPI

	roleRes, httpRes, err := c.DcimDeviceRolesCreate(ctx).DeviceRoleRequest(*roleRequest()).Execute()
	p.logResult("role", roleRes, httpRes, err)

	siteRes, httpRes, err := c.DcimSitesCreate(ctx).WritableSiteRequest(*siteRequest(site)).Execute()
	p.logResult("site", siteRes, httpRes, err)

	// Add blade chassis if exists
	if chassis := bladeChassis(report); chassis != nil {
		req := chassisRequest(site, chassis, DeviceComments(report))
		deviceRes, httpRes, err := c.DcimDevicesCreate(ctx).WritableDeviceWithConfigContextRequest(*req).Execute()
		p.logResult("chassis device", deviceRes, httpRes, err)
	}

	deviceRes, httpRes, err := c.DcimDevicesCreate(ctx).WritableDeviceWithConfigContextRequest(*deviceRequest(site, hostname, report)).Execute()
	p.logResult("device", deviceRes, httpRes, err)

	for i := range report.CPU {
		man := manufacturerRequest(report.CPU[i].Manufacturer)
		manRes, httpRes, err := c.DcimManufacturersCreate(ctx).ManufacturerRequest(*man).Execute()
		p.logResult("manufacturer", manRes, httpRes, err)

		invRes, httpRes, err := c.DcimInventoryItemsCreate(ctx).InventoryItemRequest(*cpuItem(hostname, report.CPU[i])).Execute()
		p.logResult("cpu inventory item", invRes, httpRes, err)
	}

	for i := range report.Memory {
		man := manufacturerRequest(report.Memory[i].Manufacturer)
		manRes, httpRes, err := c.DcimManufacturersCreate(ctx).ManufacturerRequest(*man).Execute()
		p.logResult("manufacturer", manRes, httpRes, err)

		invRes, httpRes, err := c.DcimInventoryItemsCreate(ctx).InventoryItemRequest(*memoryItem(hostname, report.Memory[i])).Execute()
		p.logResult("memory inventory item", invRes, httpRes, err)
	}

	netIntRes, httpRes, err := c.DcimInterfacesCreate(ctx).WritableInterfaceRequest(*bmcInterface(hostname, report)).Execute()
	p.logResult("bmc interface", netIntRes, httpRes, err)

	return nil
}

func (p *Pusher) logResult(object string, res, httpRes interface{}, err error) {
	log := p.Log.WithField("object", object)
	if err != nil {
		log.Errorf("Error creating %s: %v", object, err)
	}
	log.Debugf("Response: %+v", res)
	log.Debugf("HTTP Response: %+v", httpRes)
}

// Slug joins parts into a NetBox slug: lower case, spaces and dots become
// hyphens.
func Slug(parts ...string) string {
	var kept []string
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		part = strings.NewReplacer(" ", "-", ".", "-", "/", "-").Replace(part)
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, "-")
}

// SiteFromHostname returns the second label of a fully qualified hostname:
// "node1.ams1.example.com" lives in site "ams1".
func SiteFromHostname(hostname string) (string, error) {
	labels := strings.Split(hostname, ".")
	if len(labels) < 2 || labels[1] == "" {
		return "", errors.Errorf("cannot derive site from hostname %q", hostname)
	}
	return labels[1], nil
}

// DeviceComments summarizes serials and chassis for the device comments field.
func DeviceComments(report *inventory.Report) string {
	parts := []string{}
	if report.System != nil {
		parts = append(parts, "Serial: "+report.System.SerialNumber)
	}
	if chassis := report.PrimaryChassis(); chassis != nil {
		parts = append(parts,
			"Chassis name: "+chassis.Version,
			"Chassis serial: "+chassis.SerialNumber,
			"Chassis vendor: "+chassis.Manufacturer,
		)
	}
	if report.Bios != nil {
		parts = append(parts, fmt.Sprintf("BIOS: %s %s (%s)",
			report.Bios.Vendor, report.Bios.Version, report.Bios.ReleaseDate.Format("2006-01-02")))
	}
	return strings.Join(parts, " | ")
}

// bladeChassis returns the enclosure to register as a separate device: a
// blade reports the serial of the enclosure it sits in, which differs from
// its own.
func bladeChassis(report *inventory.Report) *inventory.ChassisInfo {
	for i := range report.Chassis {
		chassis := &report.Chassis[i]
		if chassis.SerialNumber != "" && chassis.SerialNumber != report.System.SerialNumber {
			return chassis
		}
	}
	return nil
}

func roleRequest() *netbox.DeviceRoleRequest {
	req := netbox.NewDeviceRoleRequestWithDefaults()
	req.SetName(defaultRoleName)
	req.SetSlug(defaultRoleSlug)
	req.SetDescription("It's just a default role after server creation by API, it should be changed after server creation.")
	return req
}

func siteRequest(site string) *netbox.WritableSiteRequest {
	req := netbox.NewWritableSiteRequestWithDefaults()
	req.SetName(site)
	req.SetSlug(Slug(site))
	req.SetDescription("It's just a default Site after server creation by API, it should be changed after server creation.")
	return req
}

func chassisRequest(site string, chassis *inventory.ChassisInfo, comments string) *netbox.WritableDeviceWithConfigContextRequest {
	req := newDevice(site, comments)
	req.SetDeviceType(deviceType(chassis.Manufacturer, chassis.Version))
	req.SetName(chassis.SerialNumber)
	req.SetSerial(chassis.SerialNumber)
	if chassis.AssetTag != "" {
		req.SetAssetTag(chassis.AssetTag)
	}
	return req
}

func deviceRequest(site, hostname string, report *inventory.Report) *netbox.WritableDeviceWithConfigContextRequest {
	req := newDevice(site, DeviceComments(report))
	req.SetDeviceType(deviceType(report.System.Manufacturer, report.System.ProductName))
	req.SetName(hostname)
	req.SetSerial(report.System.SerialNumber)
	req.SetLocalContextData(report)
	return req
}

func newDevice(site, comments string) *netbox.WritableDeviceWithConfigContextRequest {
	req := netbox.NewWritableDeviceWithConfigContextRequestWithDefaults()
	req.SetSite(netbox.SiteRequest{Name: site, Slug: Slug(site)})
	req.SetRole(netbox.DeviceRoleRequest{Name: defaultRoleName, Slug: defaultRoleSlug})
	req.SetComments(comments)
	return req
}

func deviceType(vendor, model string) netbox.DeviceTypeRequest {
	return netbox.DeviceTypeRequest{
		Model:        model,
		Slug:         Slug(vendor, model),
		Manufacturer: netbox.ManufacturerRequest{Name: vendor, Slug: Slug(vendor)},
	}
}

func manufacturerRequest(name string) *netbox.ManufacturerRequest {
	req := netbox.NewManufacturerRequestWithDefaults()
	req.SetName(name)
	req.SetSlug(Slug(name))
	return req
}

func deviceRef(hostname string) netbox.DeviceRequest {
	return netbox.DeviceRequest{Name: *netbox.NewNullableString(&hostname)}
}

func cpuItem(hostname string, cpu inventory.CPUInfo) *netbox.InventoryItemRequest {
	inv := netbox.NewInventoryItemRequestWithDefaults()
	inv.SetName("CPU")
	inv.SetManufacturer(*manufacturerRequest(cpu.Manufacturer))
	inv.SetPartId(cpu.Version)
	inv.SetCustomFields(map[string]interface{}{
		"cpu_cores":   cpu.CoreCount,
		"cpu_threads": cpu.ThreadCount,
	})
	inv.SetDevice(deviceRef(hostname))
	return inv
}

func memoryItem(hostname string, mem inventory.MemoryDeviceInfo) *netbox.InventoryItemRequest {
	inv := netbox.NewInventoryItemRequestWithDefaults()
	inv.SetName("MEMORY")
	inv.SetManufacturer(*manufacturerRequest(mem.Manufacturer))
	inv.SetPartId(mem.PartNumber)
	inv.SetSerial(mem.SerialNumber)
	inv.SetCustomFields(map[string]interface{}{
		"memory_size":  mem.Size,
		"memory_slot":  mem.DeviceLocator,
		"memory_speed": mem.Speed,
		"memory_type":  mem.Type,
	})
	inv.SetDevice(deviceRef(hostname))
	return inv
}

func bmcInterface(hostname string, report *inventory.Report) *netbox.WritableInterfaceRequest {
	netInt := netbox.NewWritableInterfaceRequestWithDefaults()
	netInt.SetName(bmcInterfaceName)
	netInt.SetDevice(deviceRef(hostname))
	netInt.SetType(bmcInterfaceType)
	if report.IPMI != nil {
		netInt.SetDescription(fmt.Sprintf("BMC %s, firmware %s", report.IPMI.Ipaddr, report.IPMI.FwRev))
	}
	return netInt
}
