package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runway-simulator/internal/config"
	"runway-simulator/internal/game/event"
	"runway-simulator/internal/game/simulation"
	"runway-simulator/internal/ui"
	"time"

	"github.com/labstack/gommon/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	numPlanes    = flag.Int("n", 0, "total number of planes (default 10)")
	emergencyPct = flag.Int("e", 0, "emergency probability 0-100 (default 15)")
	landingSecs  = flag.Int("l", 0, "landing duration in seconds (default 8)")
	takeoffSecs  = flag.Int("t", 0, "takeoff duration in seconds (default 6)")
	terminalMode = flag.Bool("g", false, "show the terminal dashboard")
	windowMode   = flag.Bool("w", false, "show the dashboard in a window")
	configFile   = flag.String("config", "", "YAML configuration file")
	logFile      = flag.String("logfile", "", "also write events to this file (rotated)")
	logLevel     = flag.String("loglevel", "info", "logging level: debug, info, warn, error")
	seed         = flag.Int64("seed", 0, "random seed (0 uses the current time)")
)

func usage() {
	out := flag.CommandLine.Output()
	fmt.Fprintf(out, "Airport Runway Management System Simulator\n\n")
	fmt.Fprintf(out, "Usage: %s [options]\n\n", os.Args[0])
	flag.PrintDefaults()
	fmt.Fprintf(out, "\nExample:\n  %s -n 20 -e 20 -l 6 -t 4\n", os.Args[0])
	fmt.Fprintf(out, "  (Simulate 20 planes with 20%% emergency, 6s landing, 4s takeoff)\n")
}

func main() {
	flag.Usage = usage
	flag.Parse()

	log.SetHeader("${time_rfc3339} ${level}")
	log.SetLevel(parseLevel(*logLevel))

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	dashboard := *terminalMode || *windowMode
	display := event.NewLog(cfg.EventLogSize)
	sinks := []event.Sink{display}
	if !dashboard {
		sinks = append(sinks, event.NewPrinter(os.Stdout))
	}
	if *logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    16, // MB
			MaxBackups: 3,
		}
		defer lj.Close()
		sinks = append(sinks, event.NewPrinter(lj))
	}

	if !dashboard {
		printParameters(os.Stdout, cfg)
	}
	sim, err := simulation.NewSimulation(cfg, sinks...)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- sim.Run(ctx)
	}()

	switch {
	case *windowMode:
		w := ui.NewWindow(1024, 768, sim.Runway, display, sim.Finished())
		if err := ui.RunWindow(w, "Runway Simulator"); err != nil {
			log.Errorf("window: %v", err)
		}
	case *terminalMode:
		t, err := ui.NewTerminal(sim.Runway, display, sim.Finished())
		if err != nil {
			log.Fatalf("terminal: %v", err)
		}
		if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Errorf("terminal: %v", err)
		}
	}

	select {
	case <-sim.Finished():
	default:
		// The dashboard went away early; let the planes in flight land.
		cancel()
		log.Infof("Waiting for planes in flight to complete")
	}

	if err := <-done; err != nil {
		log.Fatalf("simulation %s failed: %v", sim.ID, err)
	}

	fmt.Println()
	for _, line := range sim.Stats().Report() {
		fmt.Println(line)
	}

	if err := sim.Shutdown(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Simulation completed successfully!")
}

// loadConfig layers the config file, if any, and then any flags given on
// the command line over the defaults.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			return cfg, err
		}
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Planes = *numPlanes
		case "e":
			cfg.EmergencyProbability = *emergencyPct
		case "l":
			cfg.LandingDuration = time.Duration(*landingSecs) * time.Second
		case "t":
			cfg.TakeoffDuration = time.Duration(*takeoffSecs) * time.Second
		case "seed":
			cfg.Seed = *seed
		}
	})
	return cfg, nil
}

func parseLevel(level string) log.Lvl {
	switch level {
	case "debug":
		return log.DEBUG
	case "info":
		return log.INFO
	case "warn":
		return log.WARN
	case "error":
		return log.ERROR
	default:
		fmt.Fprintf(os.Stderr, "%s: invalid log level\n", level)
		return log.INFO
	}
}

func printParameters(w io.Writer, cfg config.Config) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "AIRPORT RUNWAY MANAGEMENT SYSTEM SIMULATION")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Runway:                %s\n", cfg.Runway)
	fmt.Fprintf(w, "  Total Planes:          %d\n", cfg.Planes)
	fmt.Fprintf(w, "  Emergency Probability: %d%%\n", cfg.EmergencyProbability)
	fmt.Fprintf(w, "  Landing Duration:      %s\n", cfg.LandingDuration)
	fmt.Fprintf(w, "  Takeoff Duration:      %s\n", cfg.TakeoffDuration)
	fmt.Fprintf(w, "  Checkpoint Interval:   %s\n", cfg.CheckpointInterval)
	fmt.Fprintln(w)
}
