// Package gate decides whether a machine's firmware is fit for deployment.
package gate

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/iglov/smbios-agent/lib/config"
	"github.com/iglov/smbios-agent/lib/inventory"
	"github.com/iglov/smbios-agent/lib/smbios"
)

// Class is a coarse chassis category.
type Class string

// Chassis classes. ClassAny disables the chassis rule.
const (
	ClassAny      Class = ""
	ClassServer   Class = "server"
	ClassPortable Class = "portable"
	ClassRack     Class = "rack"
)

// Rule names.
const (
	RuleReleaseDate    = "min-release-date"
	RuleBIOSAge        = "max-bios-age"
	RuleUEFI           = "require-uefi"
	RuleVirtualMachine = "deny-virtual-machine"
	RuleSMBIOSVersion  = "min-smbios-version"
	RuleChassis        = "chassis"
	RuleMissing        = "missing-structure"
)

// Policy is a set of deployment requirements. Zero values disable a rule.
type Policy struct {
	MinReleaseDate     time.Time
	MaxAgeDays         int
	RequireUEFI        bool
	DenyVirtualMachine bool
	MinVersion         smbios.Revision
	Chassis            Class
}

// FromConfig builds a policy from the GATE_* settings.
func FromConfig(c config.GateConfig) Policy {
	return Policy{
		MinReleaseDate:     c.MinReleaseDate,
		MaxAgeDays:         c.MaxBIOSAgeDays,
		RequireUEFI:        c.RequireUEFI,
		DenyVirtualMachine: c.DenyVirtualMachine,
		MinVersion:         c.MinSMBIOSVersion,
		Chassis:            Class(c.Chassis),
	}
}

// Violation is one failed requirement.
type Violation struct {
	Rule   string `json:"rule" yaml:"rule"`
	Detail string `json:"detail" yaml:"detail"`
}

func (v Violation) String() string {
	return v.Rule + ": " + v.Detail
}

// Enabled reports whether any rule is active.
func (p Policy) Enabled() bool {
	return p != Policy{}
}

// Evaluate checks the report against the policy and returns every violation.
// A rule that needs a structure the report lacks is itself a violation.
func (p Policy) Evaluate(report *inventory.Report, now time.Time) []Violation {
	var out []Violation
	add := func(rule, format string, args ...interface{}) {
		out = append(out, Violation{Rule: rule, Detail: fmt.Sprintf(format, args...)})
	}

	if (p.MinVersion != smbios.Revision{}) && !report.SMBIOS.Revision.AtLeast(p.MinVersion) {
		add(RuleSMBIOSVersion, "SMBIOS %s is older than %s", report.SMBIOS.Revision, p.MinVersion)
	}

	if p.needsBios() {
		if report.Bios == nil {
			add(RuleMissing, "no firmware information structure")
		} else {
			p.checkBios(report.Bios, now, add)
		}
	}

	if p.Chassis != ClassAny {
		chassis := report.PrimaryChassis()
		switch {
		case chassis == nil:
			add(RuleMissing, "no system enclosure structure")
		case !p.Chassis.matches(chassis):
			add(RuleChassis, "chassis type %s is not %s", chassis.Type, p.Chassis)
		}
	}

	return out
}

func (p Policy) needsBios() bool {
	return !p.MinReleaseDate.IsZero() || p.MaxAgeDays > 0 || p.RequireUEFI || p.DenyVirtualMachine
}

func (p Policy) checkBios(bios *inventory.BiosInfo, now time.Time, add func(string, string, ...interface{})) {
	const day = "2006-01-02"

	if !p.MinReleaseDate.IsZero() && bios.ReleaseDate.Before(p.MinReleaseDate) {
		add(RuleReleaseDate, "BIOS %s released %s, before %s",
			bios.Version, bios.ReleaseDate.Format(day), p.MinReleaseDate.Format(day))
	}

	if p.MaxAgeDays > 0 {
		age := now.Sub(bios.ReleaseDate).Hours() / 24
		if age > float64(p.MaxAgeDays) {
			add(RuleBIOSAge, "BIOS %s is %.0f days old, limit is %d", bios.Version, age, p.MaxAgeDays)
		}
	}

	if p.RequireUEFI && !bios.UEFI {
		add(RuleUEFI, "firmware does not support UEFI")
	}

	if p.DenyVirtualMachine && bios.VirtualMachine {
		add(RuleVirtualMachine, "firmware reports a virtual machine")
	}
}

func (c Class) matches(chassis *inventory.ChassisInfo) bool {
	switch c {
	case ClassServer:
		return chassis.Server
	case ClassPortable:
		return chassis.Portable
	case ClassRack:
		return chassis.RackMount
	default:
		return true
	}
}

// Check evaluates the policy and returns an error listing all violations.
func (p Policy) Check(report *inventory.Report, now time.Time) error {
	violations := p.Evaluate(report, now)
	if len(violations) == 0 {
		return nil
	}
	return errors.Errorf("%d deployment gate violation(s), first: %s", len(violations), violations[0])
}
