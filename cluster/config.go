package cluster

import (
	"fmt"
	"time"
)

// Config describes this node's place in a statically configured cluster.
type Config struct {
	// NodeName identifies this node in logs and peer requests.
	NodeName string `mapstructure:"node_name" json:"node_name"`
	// Peers lists the base URLs of the other nodes, e.g.
	// "http://ingestd-2:8080". This node's own URL must not be listed.
	Peers []string `mapstructure:"peers" json:"peers"`
	// ReloadPath is the peer endpoint invoked on reload broadcasts.
	ReloadPath string `mapstructure:"reload_path" json:"reload_path"`
	// RequestTimeout bounds each peer reload request.
	RequestTimeout time.Duration `mapstructure:"request_timeout" json:"request_timeout"`
}

func (c *Config) ApplyDefaults() {
	if c.NodeName == "" {
		c.NodeName = "ingestd-1"
	}
	if c.ReloadPath == "" {
		c.ReloadPath = "/_ingest/reload"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 5 * time.Second
	}
}

func (c *Config) Validate() error {
	for _, peer := range c.Peers {
		if peer == "" {
			return fmt.Errorf("cluster: empty peer URL")
		}
	}
	return nil
}
