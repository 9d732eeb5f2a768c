package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iglov/smbios-agent/lib/config"
	"github.com/iglov/smbios-agent/lib/inventory"
	"github.com/iglov/smbios-agent/lib/smbios"
)

var now = time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

func report() *inventory.Report {
	return &inventory.Report{
		SMBIOS: inventory.VersionInfo{Version: "3.2", Revision: smbios.Revision{Major: 3, Minor: 2}},
		Bios: &inventory.BiosInfo{
			Vendor:      "Dell Inc.",
			Version:     "2.14.1",
			ReleaseDate: time.Date(2022, time.June, 1, 0, 0, 0, 0, time.UTC),
			UEFI:        true,
		},
		Chassis: []inventory.ChassisInfo{{Type: "Rack Mount Chassis", Server: true, RackMount: true}},
	}
}

func rules(vs []Violation) []string {
	var out []string
	for _, v := range vs {
		out = append(out, v.Rule)
	}
	return out
}

func TestEvaluatePasses(t *testing.T) {
	p := Policy{
		MinReleaseDate:     time.Date(2021, time.January, 1, 0, 0, 0, 0, time.UTC),
		MaxAgeDays:         1000,
		RequireUEFI:        true,
		DenyVirtualMachine: true,
		MinVersion:         smbios.Revision{Major: 3, Minor: 0},
		Chassis:            ClassServer,
	}

	assert.True(t, p.Enabled())
	assert.Empty(t, p.Evaluate(report(), now))
	assert.NoError(t, p.Check(report(), now))
}

func TestEvaluateViolations(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		mutate func(r *inventory.Report)
		want   []string
	}{
		{
			name:   "old release",
			policy: Policy{MinReleaseDate: time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)},
			want:   []string{RuleReleaseDate},
		},
		{
			name:   "too old",
			policy: Policy{MaxAgeDays: 365},
			want:   []string{RuleBIOSAge},
		},
		{
			name:   "legacy boot",
			policy: Policy{RequireUEFI: true},
			mutate: func(r *inventory.Report) { r.Bios.UEFI = false },
			want:   []string{RuleUEFI},
		},
		{
			name:   "virtual machine",
			policy: Policy{DenyVirtualMachine: true},
			mutate: func(r *inventory.Report) { r.Bios.VirtualMachine = true },
			want:   []string{RuleVirtualMachine},
		},
		{
			name:   "old table",
			policy: Policy{MinVersion: smbios.Revision{Major: 3, Minor: 3}},
			want:   []string{RuleSMBIOSVersion},
		},
		{
			name:   "wrong chassis",
			policy: Policy{Chassis: ClassPortable},
			want:   []string{RuleChassis},
		},
		{
			name:   "no firmware structure",
			policy: Policy{RequireUEFI: true, MaxAgeDays: 10},
			mutate: func(r *inventory.Report) { r.Bios = nil },
			want:   []string{RuleMissing},
		},
		{
			name:   "no enclosure",
			policy: Policy{Chassis: ClassRack},
			mutate: func(r *inventory.Report) { r.Chassis = nil },
			want:   []string{RuleMissing},
		},
		{
			name:   "several",
			policy: Policy{MaxAgeDays: 30, RequireUEFI: true, Chassis: ClassPortable},
			mutate: func(r *inventory.Report) { r.Bios.UEFI = false },
			want:   []string{RuleBIOSAge, RuleUEFI, RuleChassis},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := report()
			if tt.mutate != nil {
				tt.mutate(r)
			}

			got := tt.policy.Evaluate(r, now)
			assert.Equal(t, tt.want, rules(got))
			assert.Error(t, tt.policy.Check(r, now))
		})
	}
}

func TestViolationString(t *testing.T) {
	vs := Policy{MaxAgeDays: 365}.Evaluate(report(), now)
	require.Len(t, vs, 1)
	assert.Equal(t, "max-bios-age: BIOS 2.14.1 is 731 days old, limit is 365", vs[0].String())
}

func TestDisabledPolicy(t *testing.T) {
	var p Policy
	assert.False(t, p.Enabled())
	assert.Empty(t, p.Evaluate(&inventory.Report{}, now))
}

func TestFromConfig(t *testing.T) {
	p := FromConfig(config.GateConfig{
		MaxBIOSAgeDays:   90,
		RequireUEFI:      true,
		MinSMBIOSVersion: smbios.Revision{Major: 3, Minor: 1},
		Chassis:          "rack",
	})

	assert.Equal(t, Policy{
		MaxAgeDays:  90,
		RequireUEFI: true,
		MinVersion:  smbios.Revision{Major: 3, Minor: 1},
		Chassis:     ClassRack,
	}, p)
}
