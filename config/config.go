package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/ingestd/cluster"
	"github.com/kbukum/ingestd/docstore/redisstore"
	"github.com/kbukum/ingestd/logger"
	"github.com/kbukum/ingestd/observability"
	"github.com/kbukum/ingestd/server"
	"github.com/kbukum/ingestd/store"
)

// Document store backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// DocstoreConfig selects and configures the document store backend.
type DocstoreConfig struct {
	// Backend is "memory" or "redis". The memory backend is for
	// single-node and test deployments only.
	Backend string            `yaml:"backend" mapstructure:"backend"`
	Redis   redisstore.Config `yaml:"redis" mapstructure:"redis"`
}

func (c *DocstoreConfig) ApplyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendMemory
	}
	c.Redis.ApplyDefaults()
}

func (c *DocstoreConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendRedis:
		return c.Redis.Validate()
	default:
		return fmt.Errorf("docstore.backend must be one of [memory, redis] (got: %s)", c.Backend)
	}
}

// Config is the root service configuration.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Version     string `yaml:"version" mapstructure:"version"`

	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Docstore      DocstoreConfig       `yaml:"docstore" mapstructure:"docstore"`
	Store         store.Config         `yaml:"store" mapstructure:"store"`
	Cluster       cluster.Config       `yaml:"cluster" mapstructure:"cluster"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills in every unset field, section by section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "ingestd"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = c.Name
	}
	c.Logging.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Docstore.ApplyDefaults()
	c.Store.ApplyDefaults()
	c.Cluster.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

var validate = validator.New()

// Validate checks the root fields against their struct tags, then every
// section.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Docstore.Validate(); err != nil {
		return err
	}
	if err := c.Cluster.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return err
	}
	return nil
}
