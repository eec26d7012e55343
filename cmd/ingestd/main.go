// Command ingestd runs the pipeline definition service: a document-store
// backed registry of named processor pipelines with a cluster-wide reload
// protocol and an HTTP management API.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kbukum/ingestd/cluster"
	"github.com/kbukum/ingestd/component"
	"github.com/kbukum/ingestd/config"
	"github.com/kbukum/ingestd/docstore"
	"github.com/kbukum/ingestd/docstore/memstore"
	"github.com/kbukum/ingestd/docstore/redisstore"
	"github.com/kbukum/ingestd/ingest/processors"
	"github.com/kbukum/ingestd/logger"
	"github.com/kbukum/ingestd/observability"
	"github.com/kbukum/ingestd/server"
	"github.com/kbukum/ingestd/server/api"
	"github.com/kbukum/ingestd/store"
	"github.com/kbukum/ingestd/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ingestd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var cfg config.Config
	if err := config.Load("ingestd", &cfg); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.Logging)
	log := logger.New(&cfg.Logging, cfg.Name)
	log.Info("Starting ingestd", map[string]interface{}{
		"version":     version.Get().Version,
		"environment": cfg.Environment,
		"node":        cfg.Cluster.NodeName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	obs, err := observability.Init(ctx, cfg.Observability, cfg.Name, version.Get().Version, log)
	if err != nil {
		return fmt.Errorf("initializing observability: %w", err)
	}
	defer func() {
		if err := obs.Shutdown(context.Background()); err != nil {
			log.Warn("Observability shutdown failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	docs, closeDocs, err := openDocstore(cfg.Docstore, log)
	if err != nil {
		return err
	}
	defer closeDocs()

	registry, err := processors.NewRegistry()
	if err != nil {
		return fmt.Errorf("registering processors: %w", err)
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return fmt.Errorf("creating metric instruments: %w", err)
	}

	pipelineStore := store.New(docs, registry, cfg.Store, log)
	pipelineStore.SetMetrics(metrics)
	coordinator := cluster.New(cfg.Cluster, pipelineStore, log)
	if len(cfg.Cluster.Peers) > 0 {
		pipelineStore.SetBroadcaster(coordinator)
	}

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	handler := api.NewHandler(pipelineStore, coordinator, log)
	handler.SetMetrics(metrics)
	handler.Register(srv.GinEngine())

	components := component.NewRegistry(log)
	if err := components.Register(newStoreComponent(pipelineStore, cfg.Store.PipelineDir)); err != nil {
		return err
	}
	if err := components.Register(srv); err != nil {
		return err
	}
	srv.RegisterProbes(cfg.Name, components.HealthAll)

	if err := components.StartAll(ctx); err != nil {
		_ = components.StopAll(context.Background())
		return err
	}
	log.Info("ingestd ready", map[string]interface{}{
		"addr":  srv.Addr(),
		"peers": len(cfg.Cluster.Peers),
	})

	<-ctx.Done()
	log.Info("Shutdown signal received")
	return components.StopAll(context.Background())
}

// openDocstore builds the configured document store backend and returns a
// close function for it.
func openDocstore(cfg config.DocstoreConfig, log *logger.Logger) (docstore.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendRedis:
		rs, err := redisstore.New(cfg.Redis, log)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return rs, func() { _ = rs.Close() }, nil
	default:
		return memstore.New(), func() {}, nil
	}
}
