package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iglov/smbios-agent/lib/config"
	"github.com/iglov/smbios-agent/lib/gate"
	"github.com/iglov/smbios-agent/lib/inventory"
	"github.com/iglov/smbios-agent/lib/ipmi"
	"github.com/iglov/smbios-agent/lib/netbox"
	"github.com/iglov/smbios-agent/lib/smbios"
)

var (
	version   = flag.Bool("v", false, "Print current version and exit.")
	logLevel  = flag.String("loglevel", "info", "Set log level: DEBUG, INFO, WARN, ERROR")
	envFile   = flag.String("env", "", "Path to a .env file (default: .env in the working directory)")
	tableFile = flag.String("table", "", "Read a saved raw SMBIOS table instead of the firmware (overrides SMBIOS_TABLE)")
	saveTable = flag.String("save-table", "", "Save the raw SMBIOS table to this path")
	format    = flag.String("format", inventory.FormatJSON, "Report format: json or yaml")
	push      = flag.Bool("push", false, "Register the machine in NetBox (API_URL, API_TOKEN)")
	gateCheck = flag.Bool("gate", false, "Check the GATE_* deployment policy and exit non-zero on violations")
	readIPMI  = flag.Bool("ipmi", false, "Read BMC information over IPMI")
)

// Version contains main version of build. Get from compiler variables
var Version string

// Initiate log
var log = logrus.New()

func main() {

	flag.Parse()

	if *version {
		fmt.Println(Version)
		os.Exit(0)
	}

	// Set log output to stdout
	log.Out = os.Stdout

	// Parse the log level and set it
	level, err := logrus.ParseLevel(strings.ToLower(*logLevel))
	if err != nil {
		log.Fatalf("Invalid log level: %s", *logLevel)
	}
	log.SetLevel(level)

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := config.Load(log, envFiles...)
	if err != nil {
		log.Fatalf("Error reading configuration: %s", err)
	}

	tablePath := cfg.TablePath
	if *tableFile != "" {
		tablePath = *tableFile
	}

	var provider smbios.TableProvider = smbios.NewStreamProvider(log)
	if tablePath != "" {
		log.WithField("path", tablePath).Info("reading saved SMBIOS table")
		provider = smbios.FileProvider{Path: tablePath}
	}

	table, err := smbios.Load(provider)
	if err != nil {
		log.Fatalf("Error loading SMBIOS table: %s", err)
	}

	if *saveTable != "" {
		if err := smbios.Save(*saveTable, table); err != nil {
			log.Fatalf("Error saving SMBIOS table: %s", err)
		}
		log.WithField("path", *saveTable).Info("saved SMBIOS table")
	}

	collector := &inventory.Collector{Table: table, Log: log}
	// processor, memory and baseboard come from the live firmware only
	if tablePath == "" {
		collector.Hardware = inventory.DMIDecode{}
	}
	if *readIPMI {
		collector.BMC = func() (ipmi.BmcInfo, error) {
			return ipmi.ReadBMC(log)
		}
	}

	report, err := collector.Collect()
	if err != nil {
		log.Fatalf("Error collecting inventory: %s", err)
	}

	if err := report.Encode(os.Stdout, *format); err != nil {
		log.Fatalf("Error writing report: %s", err)
	}

	if *gateCheck {
		policy := gate.FromConfig(cfg.Gate)
		if !policy.Enabled() {
			log.Warn("Deployment gate requested but no GATE_* rule is set")
		}
		violations := policy.Evaluate(report, time.Now())
		for _, v := range violations {
			log.WithField("rule", v.Rule).Error(v.Detail)
		}
		if len(violations) > 0 {
			os.Exit(2)
		}
		log.Info("Deployment gate passed")
	}

	if *push {
		if !cfg.HasNetbox() {
			log.Fatalf("NetBox push requested but %s or %s is not set", config.EnvAPIURL, config.EnvAPIToken)
		}

		hostname, err := os.Hostname()
		if err != nil {
			log.Fatalf("Error get hostname: %s", err)
		}

		pusher := netbox.NewPusher(cfg.APIURL, cfg.APIToken, log)
		if err := pusher.Push(context.Background(), hostname, report); err != nil {
			log.Fatalf("Error pushing to NetBox: %s", err)
		}
	}
}
