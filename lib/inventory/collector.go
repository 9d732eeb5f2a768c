package inventory

import (
	"bytes"
	"encoding/json"
	"io"

	gosmbios "github.com/digitalocean/go-smbios/smbios"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/iglov/smbios-agent/lib/ipmi"
	"github.com/iglov/smbios-agent/lib/smbios"
)

// Output formats understood by Report.Encode.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is the common struct for all of our hardware components.
type Report struct {
	SMBIOS  VersionInfo        `json:"smbios" yaml:"smbios"`
	Bios    *BiosInfo          `json:"bios,omitempty" yaml:"bios,omitempty"`
	System  *SystemInfo        `json:"system,omitempty" yaml:"system,omitempty"`
	Chassis []ChassisInfo      `json:"chassis" yaml:"chassis"`
	CPU     []CPUInfo          `json:"cpu" yaml:"cpu"`
	Memory  []MemoryDeviceInfo `json:"memory" yaml:"memory"`
	IPMI    *ipmi.BmcInfo      `json:"ipmi,omitempty" yaml:"ipmi,omitempty"`

	// Structures counts the structures in the table by type name.
	Structures map[string]int `json:"structures,omitempty" yaml:"structures,omitempty"`
}

// PrimaryChassis returns the enclosure the system itself sits in, nil when
// the table has none.
func (r *Report) PrimaryChassis() *ChassisInfo {
	if len(r.Chassis) == 0 {
		return nil
	}
	return &r.Chassis[0]
}

// Encode writes the report in the given format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(r), "failed to encode report as json")
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return errors.Wrap(err, "failed to encode report as yaml")
		}
		_, err = w.Write(out)
		return errors.Wrap(err, "failed to write report")
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

// BMCReader returns the BMC information, e.g. ipmi.ReadBMC.
type BMCReader func() (ipmi.BmcInfo, error)

// Collector builds a Report from a raw SMBIOS table plus the optional
// hardware and BMC sources.
type Collector struct {
	// Table is the raw table; nil loads it from smbios.DefaultProvider.
	Table    []byte
	Log      logrus.FieldLogger
	Hardware HardwareSource
	BMC      BMCReader
}

// Collect decodes the table. Structures that are absent are logged and left
// out of the report; malformed ones fail the collection. Hardware and BMC
// failures are logged only.
func (c *Collector) Collect() (*Report, error) {
	log := c.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	table := c.Table
	if table == nil {
		var err error
		if table, err = smbios.Load(smbios.DefaultProvider); err != nil {
			return nil, errors.Wrap(err, "failed to load SMBIOS table")
		}
	}

	version, err := smbios.ParseVersion(table)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse SMBIOS header")
	}
	report := &Report{SMBIOS: NewVersionInfo(version)}
	log.WithField("version", version.String()).Debug("parsed SMBIOS header")

	fw, err := smbios.GetFirmwareInformation(table)
	switch {
	case smbios.IsNotFound(err):
		log.WithField("type", smbios.TypeFirmwareInformation).Warn("structure not found")
	case err != nil:
		return nil, errors.Wrap(err, "failed to decode firmware information")
	default:
		bios := NewBiosInfo(fw)
		report.Bios = &bios
	}

	sys, err := smbios.GetSystemInformation(table)
	switch {
	case smbios.IsNotFound(err):
		log.WithField("type", smbios.TypeSystemInformation).Warn("structure not found")
	case err != nil:
		return nil, errors.Wrap(err, "failed to decode system information")
	default:
		info := NewSystemInfo(sys)
		report.System = &info
	}

	enclosures, err := smbios.GetSystemEnclosures(table)
	switch {
	case smbios.IsNotFound(err):
		log.WithField("type", smbios.TypeSystemEnclosure).Warn("structure not found")
	case err != nil:
		return nil, errors.Wrap(err, "failed to decode system enclosure")
	default:
		for _, enc := range enclosures {
			report.Chassis = append(report.Chassis, NewChassisInfo(enc))
		}
	}

	census, err := Census(table)
	if err != nil {
		log.WithError(err).Warn("failed to count SMBIOS structures")
	}
	report.Structures = census

	if c.Hardware != nil {
		c.collectHardware(log, report)
	}

	if c.BMC != nil {
		bmc, err := c.BMC()
		if err != nil {
			log.WithError(err).Warn("failed to read BMC information")
		} else {
			report.IPMI = &bmc
		}
	}

	return report, nil
}

func (c *Collector) collectHardware(log logrus.FieldLogger, report *Report) {
	cpus, err := c.Hardware.CPUs()
	if err != nil {
		log.WithError(err).Warn("failed to fetch CPU information")
	}
	report.CPU = cpus

	memory, err := c.Hardware.MemoryDevices()
	if err != nil {
		log.WithError(err).Warn("failed to fetch memory devices")
	}
	report.Memory = memory

	location, err := c.Hardware.BaseboardLocation()
	if err != nil {
		log.WithError(err).Warn("failed to fetch baseboard information")
	}
	if report.System != nil {
		report.System.LocationInChassis = location
	}
}

// Census counts the structures of a raw table by type name, walking it with
// the go-smbios stream decoder.
func Census(table []byte) (map[string]int, error) {
	if _, err := smbios.ParseVersion(table); err != nil {
		return nil, err
	}

	structures, err := gosmbios.NewDecoder(bytes.NewReader(table[8:])).Decode()
	if err != nil {
		return nil, errors.Wrap(err, "failed to walk SMBIOS structures")
	}

	counts := make(map[string]int)
	for _, s := range structures {
		counts[smbios.StructureType(s.Header.Type).String()]++
	}

	return counts, nil
}
