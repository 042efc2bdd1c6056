package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"motionctl/internal/config"
	"motionctl/internal/engine"
	"motionctl/internal/statusapi"
	"motionctl/internal/telemetry"
	"motionctl/internal/transport"
)

const shutdownGrace = 2 * time.Second

var (
	configPath   *string
	profilesPath *string
	csvPath      *string
	tcpPort      *int
	statusPort   *int
	verbose      *bool
)

// TODO: per 12-factor rules these should come from env too; KISS for now.
func init() {
	configPath = flag.String("config", "config.yaml", "engine config file")
	profilesPath = flag.String("profiles", "profiles.yaml", "named move profile file")
	csvPath = flag.String("csv", "", "CSV telemetry output path (overrides config)")
	tcpPort = flag.Int("port", 0, "command TCP port (overrides config)")
	statusPort = flag.Int("status-port", 0, "status HTTP port (overrides config)")
	verbose = flag.Bool("verbose", false, "enable per-step console logging")
	flag.Parse()
}

func toEngineConfig(cfg config.EngineConfig, profiles *config.ProfileSet) engine.Config {
	ec := engine.DefaultConfig()
	ec.AxisCount = cfg.AxisCount
	ec.SampleTime = cfg.SampleTime
	ec.TotalSteps = cfg.TotalSteps
	ec.PlantMass = cfg.PlantMass
	ec.Verbose = cfg.Verbose || *verbose
	ec.DefaultPlannerInput.SampleTime = cfg.SampleTime

	if profiles != nil && cfg.DefaultProfile != "" {
		if in, ok := profiles.Lookup(cfg.DefaultProfile, cfg.SampleTime); ok {
			ec.DefaultPlannerInput = in
		} else {
			log.Printf("[main] default profile %q not found in profiles.yaml, using built-in default", cfg.DefaultProfile)
		}
	}
	return ec
}

func runApp() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("[main] config load failed, using defaults: %v", err)
		cfg = config.Default()
	}
	if *csvPath != "" {
		cfg.CSVPath = *csvPath
	}
	if *tcpPort != 0 {
		cfg.TCPPort = *tcpPort
	}
	if *statusPort != 0 {
		cfg.StatusPort = *statusPort
	}

	profiles, err := config.LoadProfiles(*profilesPath)
	if err != nil {
		log.Printf("[main] profile load failed, command 5 will use bare params only: %v", err)
		profiles = nil
	}

	csvFile, err := os.Create(cfg.CSVPath)
	if err != nil {
		return fmt.Errorf("main: create csv output: %w", err)
	}
	defer csvFile.Close()

	sink := telemetry.NewSink(csvFile)
	hub := telemetry.NewHub()

	onRecord := func(rec telemetry.Record) {
		sink.Enqueue(rec)
		hub.Publish(rec)
	}

	eng, err := engine.New(toEngineConfig(cfg, profiles), onRecord)
	if err != nil {
		return fmt.Errorf("main: engine init: %w", err)
	}

	done := make(chan struct{})
	commands := make(chan engine.CommandMsg)

	// Any worker returning (e.g. the control worker exiting on an
	// emergency stop or a cmd-999 disconnect, per spec.md's shutdown
	// rule) closes done immediately, so the remaining workers unwind
	// instead of g.Wait() blocking on goroutines nothing ever stops.
	var closeOnce sync.Once
	shutdown := func() { closeOnce.Do(func() { close(done) }) }

	var g errgroup.Group

	g.Go(func() error {
		defer shutdown()
		sink.Run(done)
		return nil
	})

	g.Go(func() error {
		defer shutdown()
		engine.RunControlWorker(eng, commands, done)
		return nil
	})

	g.Go(func() error {
		defer shutdown()
		srv := transport.NewServer(cfg.TCPPort, commands)
		return srv.Serve(done)
	})

	g.Go(func() error {
		defer shutdown()
		status := statusapi.NewServer(cfg.StatusPort, eng)
		return status.Serve(done)
	})

	g.Go(func() error {
		defer shutdown()
		mux := http.NewServeMux()
		mux.HandleFunc("/ws/telemetry", hub.ServeWS)
		srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.StatusPort+1), Handler: mux}
		errCh := make(chan error, 1)
		go func() { errCh <- srv.ListenAndServe() }()

		select {
		case <-done:
			ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer cancel()
			return srv.Shutdown(ctx)
		case err := <-errCh:
			if err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("main: telemetry ws: %w", err)
			}
			return nil
		}
	})

	return g.Wait()
}

func main() {
	if err := runApp(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
