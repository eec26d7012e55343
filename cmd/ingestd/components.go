package main

import (
	"context"

	"github.com/kbukum/ingestd/component"
	"github.com/kbukum/ingestd/store"
)

// storeComponent adapts the pipeline store to the component lifecycle and
// preloads bundled definitions once the store is ready.
type storeComponent struct {
	store       *store.Store
	pipelineDir string
}

func newStoreComponent(s *store.Store, pipelineDir string) *storeComponent {
	return &storeComponent{store: s, pipelineDir: pipelineDir}
}

func (c *storeComponent) Name() string { return "pipeline-store" }

func (c *storeComponent) Start(ctx context.Context) error {
	if err := c.store.Start(ctx); err != nil {
		return err
	}
	if c.pipelineDir != "" {
		return c.store.PreloadDirectory(ctx, c.pipelineDir)
	}
	return nil
}

func (c *storeComponent) Stop(ctx context.Context) error {
	c.store.Stop("service shutdown")
	return nil
}

func (c *storeComponent) Health(ctx context.Context) component.Health {
	if !c.store.Ready() {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "pipeline store isn't ready",
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}
