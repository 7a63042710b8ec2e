package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/df07/go-direct-raytracer/internal/hostinfo"
	"github.com/df07/go-direct-raytracer/internal/logger"
	"github.com/df07/go-direct-raytracer/pkg/config"
	"github.com/df07/go-direct-raytracer/web/server"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "YAML configuration file")
	port := flag.Int("port", 0, "Port to serve on (overrides the config file)")
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			logger.NewLogger("info").Warnf("%v", err)
		}
		cfg = loaded
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	log := logger.NewLogger(cfg.Log.Level)
	if cfg.Log.File != "" {
		fileLog, err := logger.NewFileLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Errorf("%v", err)
			os.Exit(1)
		}
		log = fileLog
	}
	defer log.Close()

	if info, err := hostinfo.Detect(); err == nil {
		log.Infof("Host: %s", info)
	}
	if cfg.Render.Workers == 0 {
		cfg.Render.Workers = hostinfo.DefaultWorkers()
	}

	webServer := server.NewServer(cfg, log)
	log.Infof("Direct-lighting Raytracer Web Server")
	log.Infof("Visit http://localhost:%d/api/render?scene=%s to render", cfg.Server.Port, cfg.Scene.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		errs <- webServer.Start()
	}()

	select {
	case err := <-errs:
		if err != nil {
			log.Errorf("Error starting server: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("Shutdown failed: %v", err)
		}
	}
}
