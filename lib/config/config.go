package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iglov/smbios-agent/lib/smbios"
)

// Environment variables.
const (
	EnvAPIURL             = "API_URL"
	EnvAPIToken           = "API_TOKEN"
	EnvTable              = "SMBIOS_TABLE"
	EnvMinReleaseDate     = "GATE_MIN_RELEASE_DATE"
	EnvMaxBIOSAgeDays     = "GATE_MAX_BIOS_AGE_DAYS"
	EnvRequireUEFI        = "GATE_REQUIRE_UEFI"
	EnvDenyVirtualMachine = "GATE_DENY_VIRTUAL_MACHINE"
	EnvMinSMBIOSVersion   = "GATE_MIN_SMBIOS_VERSION"
	EnvChassis            = "GATE_CHASSIS"
)

const dateLayout = "2006-01-02"

// Config is everything the agent reads from the environment.
type Config struct {
	APIURL   string
	APIToken string

	// TablePath replaces the firmware table with a saved one when set.
	TablePath string

	Gate GateConfig
}

// GateConfig holds the raw deployment gate settings.
type GateConfig struct {
	MinReleaseDate     time.Time
	MaxBIOSAgeDays     int
	RequireUEFI        bool
	DenyVirtualMachine bool
	MinSMBIOSVersion   smbios.Revision
	Chassis            string
}

// HasNetbox reports whether both NetBox settings are present.
func (c Config) HasNetbox() bool {
	return c.APIURL != "" && c.APIToken != ""
}

// Load reads .env files (the default .env when none are given) into the
// process environment and parses the result. Variables already set in the
// environment win over the files.
func Load(log logrus.FieldLogger, files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Warn("Error loading .env , using local variables")
	}
	return FromEnv()
}

// FromEnv parses the configuration from the process environment.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:    strings.TrimSpace(os.Getenv(EnvAPIURL)),
		APIToken:  strings.TrimSpace(os.Getenv(EnvAPIToken)),
		TablePath: strings.TrimSpace(os.Getenv(EnvTable)),
	}

	var err error
	if cfg.Gate, err = gateFromEnv(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func gateFromEnv() (GateConfig, error) {
	var (
		g   GateConfig
		err error
	)

	if v := lookup(EnvMinReleaseDate); v != "" {
		if g.MinReleaseDate, err = time.ParseInLocation(dateLayout, v, time.UTC); err != nil {
			return g, errors.Wrapf(err, "invalid %s", EnvMinReleaseDate)
		}
	}

	if v := lookup(EnvMaxBIOSAgeDays); v != "" {
		if g.MaxBIOSAgeDays, err = strconv.Atoi(v); err != nil {
			return g, errors.Wrapf(err, "invalid %s", EnvMaxBIOSAgeDays)
		}
		if g.MaxBIOSAgeDays < 0 {
			return g, errors.Errorf("invalid %s: must not be negative", EnvMaxBIOSAgeDays)
		}
	}

	if g.RequireUEFI, err = boolean(EnvRequireUEFI); err != nil {
		return g, err
	}
	if g.DenyVirtualMachine, err = boolean(EnvDenyVirtualMachine); err != nil {
		return g, err
	}

	if v := lookup(EnvMinSMBIOSVersion); v != "" {
		if g.MinSMBIOSVersion, err = smbios.ParseRevision(v); err != nil {
			return g, errors.Wrapf(err, "invalid %s", EnvMinSMBIOSVersion)
		}
	}

	g.Chassis = strings.ToLower(lookup(EnvChassis))
	switch g.Chassis {
	case "", "server", "portable", "rack":
	default:
		return g, errors.Errorf("invalid %s %q: want server, portable or rack", EnvChassis, g.Chassis)
	}

	return g, nil
}

func lookup(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func boolean(key string) (bool, error) {
	v := lookup(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s", key)
	}
	return b, nil
}
