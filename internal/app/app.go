// Package app wires the server together: config, logging, content, the hub,
// and the HTTP surface.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	server "duskhollow/server"
	"duskhollow/server/internal/config"
	"duskhollow/server/internal/content"
	"duskhollow/server/logging"
	loggingsinks "duskhollow/server/logging/sinks"
)

// Run starts the server and blocks until ctx is cancelled or a component
// fails. Shutdown order is http, simulation, then the logging router so late
// events still land in the sinks.
func Run(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	var sinks []logging.NamedSink
	if cfg.Logging.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingsinks.NewConsole(os.Stdout)})
	}
	if cfg.Logging.HasSink("json") && cfg.Logging.JSONFilePath != "" {
		file, err := os.OpenFile(cfg.Logging.JSONFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open json log %s: %w", cfg.Logging.JSONFilePath, err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSON(file)})
	}
	router := logging.NewRouter(cfg.Logging, sinks)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if cerr := router.Close(closeCtx); cerr != nil {
			log.Printf("failed to close logging router: %v", cerr)
		}
	}()

	catalog, err := content.Load(cfg.ContentDir)
	if err != nil {
		return fmt.Errorf("load content: %w", err)
	}

	hub := server.NewHub(catalog, router, cfg.TickRate)
	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewMux(hub, cfg.ClientDir)}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		hub.RunSimulation(groupCtx)
		return nil
	})
	group.Go(func() error {
		log.Printf("server listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
