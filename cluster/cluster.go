// Package cluster propagates pipeline reloads across a statically
// configured set of nodes. A node that accepts a definition write reloads
// its own cache and then notifies every peer; peers reload from the shared
// document store rather than receiving the definition itself, so a missed
// notification is repaired by the next reconciliation.
package cluster

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/ingestd/logger"
)

// Reloader re-reads pipeline definitions from the document store and
// applies them to the local cache.
type Reloader interface {
	UpdatePipelines(ctx context.Context) error
}

// Coordinator fans reload notifications out to peer nodes. It satisfies the
// store's Broadcaster contract: the local reload is authoritative, peer
// notifications are best effort.
type Coordinator struct {
	cfg      Config
	log      *logger.Logger
	reloader Reloader
	client   *http.Client
}

// New builds a Coordinator for the given peer set.
func New(cfg Config, reloader Reloader, log *logger.Logger) *Coordinator {
	cfg.ApplyDefaults()
	return &Coordinator{
		cfg:      cfg,
		log:      log.WithComponent("cluster"),
		reloader: reloader,
		client:   &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// ReloadAll reloads the local cache and notifies every peer. The local
// reload error is returned; peer failures are logged and swallowed, since
// an unreachable peer converges on its next reconciliation pass.
func (c *Coordinator) ReloadAll(ctx context.Context) error {
	start := time.Now()
	if err := c.reloader.UpdatePipelines(ctx); err != nil {
		return fmt.Errorf("local reload: %w", err)
	}

	if len(c.cfg.Peers) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, peer := range c.cfg.Peers {
		peer := peer
		g.Go(func() error {
			if err := c.notifyPeer(ctx, peer); err != nil {
				c.log.Warn("Peer reload notification failed", map[string]interface{}{
					"peer":  peer,
					"error": err.Error(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	c.log.Debug("Reload broadcast complete", map[string]interface{}{
		"peers":       len(c.cfg.Peers),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

func (c *Coordinator) notifyPeer(ctx context.Context, peer string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, peer+c.cfg.ReloadPath, nil)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderOrigin, c.cfg.NodeName)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("peer returned status %d", resp.StatusCode)
	}
	return nil
}

// HeaderOrigin names the node that initiated a reload broadcast. Handlers
// use it to distinguish peer notifications from client-initiated reloads,
// and peers never rebroadcast requests carrying it.
const HeaderOrigin = "X-Ingestd-Origin"
