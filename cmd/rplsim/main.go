package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cheggaaa/pb/v3"
	"github.com/gologme/log"
	gsyslog "github.com/hashicorp/go-syslog"
	"github.com/hjson/hjson-go/v4"
	"github.com/kardianos/minwinsvc"

	"github.com/yggdrasil-network/rplsim/src/config"
	runarchivedb "github.com/yggdrasil-network/rplsim/src/db/RunArchiveDB"
	"github.com/yggdrasil-network/rplsim/src/defaults"
	"github.com/yggdrasil-network/rplsim/src/sim"
	"github.com/yggdrasil-network/rplsim/src/version"
)

// The main function is responsible for configuring and running a simulation.
func main() {
	genconf := flag.Bool("genconf", false, "print a new config to stdout")
	useconf := flag.Bool("useconf", false, "read HJSON/JSON config from stdin")
	useconffile := flag.String("useconffile", "", "read HJSON/JSON config from specified file path")
	normaliseconf := flag.Bool("normaliseconf", false, "use in combination with either -useconf or -useconffile, outputs your configuration normalised")
	confjson := flag.Bool("json", false, "print configuration from -genconf or -normaliseconf as JSON instead of HJSON")
	ver := flag.Bool("version", false, "prints the version of this build")
	logto := flag.String("logto", "stdout", "file path to log to, \"syslog\" or \"stdout\"")
	loglevel := flag.String("loglevel", "info", "loglevel to enable")
	var nodes, iterations, attempts uint32Value
	flag.Var(&nodes, "nodes", "number of nodes, overrides the config")
	flag.Var(&iterations, "iterations", "number of optimizer iterations, overrides the config")
	flag.Var(&attempts, "attempts", "number of key exchange attempts, 0 for one per node, overrides the config")
	curve := flag.String("curve", "", "key exchange curve, overrides the config")
	seed := flag.Uint64("seed", 0, "seed for the optimizer and pair selection, overrides the config")
	progress := flag.Bool("progress", false, "show a progress bar while key exchanges run")
	archive := flag.String("archive", "", "append the run to this SQLite database, or \"default\" for the platform path, overrides the config")
	quiet := flag.Bool("quiet", false, "only print the summary, not one line per key exchange")
	flag.Parse()

	// Catch interrupts from the operating system to exit gracefully.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Capture the service being stopped on Windows.
	minwinsvc.SetOnExit(cancel)

	// Create a new logger that logs output to stdout.
	var logger *log.Logger
	switch *logto {
	case "stdout":
		logger = log.New(os.Stdout, "", log.Flags())

	case "syslog":
		if syslogger, err := gsyslog.NewLogger(gsyslog.LOG_NOTICE, "DAEMON", version.BuildName()); err == nil {
			logger = log.New(syslogger, "", log.Flags()&^(log.Ldate|log.Ltime))
		}

	default:
		if logfd, err := os.OpenFile(*logto, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			logger = log.New(logfd, "", log.Flags())
		}
	}
	if logger == nil {
		logger = log.New(os.Stdout, "", log.Flags())
		logger.Warnln("Logging defaulting to stdout")
	}

	cfg := config.GenerateConfig()
	switch {
	case *ver:
		fmt.Println("Build name:", version.BuildName())
		fmt.Println("Build version:", version.BuildVersion())
		return

	case *useconf:
		if _, err := cfg.ReadFrom(os.Stdin); err != nil {
			panic(err)
		}

	case *useconffile != "":
		f, err := os.Open(*useconffile)
		if err != nil {
			panic(err)
		}
		if _, err := cfg.ReadFrom(f); err != nil {
			panic(err)
		}
		_ = f.Close()

	case *genconf:
		printConfig(cfg, *confjson)
		return

	default:
		// Fall back to the platform config file when there is one.
		if f, err := os.Open(defaults.GetDefaults().DefaultConfigFile); err == nil {
			if _, err := cfg.ReadFrom(f); err != nil {
				panic(err)
			}
			_ = f.Close()
		}
	}

	// Flags given explicitly on the command line win over the config.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "nodes":
			cfg.Nodes, cfg.NodeIDs = uint32(nodes), ""
		case "iterations":
			cfg.Iterations = uint32(iterations)
		case "attempts":
			cfg.Attempts = uint32(attempts)
		case "curve":
			cfg.Curve = *curve
		case "seed":
			cfg.Seed = seed
		case "archive":
			cfg.Archive = *archive
			if cfg.Archive == "default" {
				cfg.Archive = defaults.GetDefaults().DefaultArchiveFile
			}
		case "loglevel":
			cfg.LogLevel = *loglevel
		}
	})

	switch {
	case *normaliseconf:
		setLogLevel("error", logger)
		printConfig(cfg, *confjson)
		return
	default:
		setLogLevel(cfg.LogLevel, logger)
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	logger.Infoln("Starting", version.String())

	var options []sim.SetupOption
	if *progress {
		ns, _ := cfg.NodeSet()
		bar := pb.StartNew(int(cfg.AttemptCount(ns)))
		defer bar.Finish()
		options = append(options, sim.Progress(func() {
			bar.Increment()
		}))
	}

	report, err := sim.Run(ctx, cfg, logger, options...)
	if err != nil {
		logger.Errorln("Run failed:", err)
		os.Exit(1)
	}

	if !*quiet {
		if err := report.WriteOutcomes(os.Stdout); err != nil {
			logger.Errorln("Failed to write outcomes:", err)
		}
	}
	report.WriteSummary(os.Stdout)

	if cfg.Archive != "" {
		if err := archiveRun(cfg.Archive, report, logger); err != nil {
			logger.Errorln("Failed to archive run:", err)
			os.Exit(1)
		}
		logger.Infoln("Run archived to", cfg.Archive)
	}
}

func printConfig(cfg *config.RunConfig, asJSON bool) {
	var bs []byte
	var err error
	if asJSON {
		bs, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		bs, err = hjson.Marshal(cfg)
	}
	if err != nil {
		panic(err)
	}
	fmt.Println(string(bs))
}

func archiveRun(path string, report *sim.Report, logger *log.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	archive, err := runarchivedb.New("sqlite3", path)
	if err != nil {
		return err
	}
	defer archive.Close()
	if archive.DbConfig.Created {
		logger.Infoln("Created new run archive", path)
	}
	return archive.Add(&runarchivedb.Run{
		Started:    report.Started,
		Nodes:      report.Nodes.Len(),
		Iterations: report.Iterations,
		Curve:      string(report.Curve),
		Anchor:     report.Anchor,
		Outcomes:   report.Outcomes,
	})
}

func setLogLevel(loglevel string, logger *log.Logger) {
	levels := [...]string{"error", "warn", "info", "debug", "trace"}
	loglevel = strings.ToLower(loglevel)

	contains := func() bool {
		for _, l := range levels {
			if l == loglevel {
				return true
			}
		}
		return false
	}

	if !contains() { // set default log level
		logger.Infoln("Loglevel parse failed. Set default level(info)")
		loglevel = "info"
	}

	for _, l := range levels {
		logger.EnableLevel(l)
		if l == loglevel {
			break
		}
	}
}
