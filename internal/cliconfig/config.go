package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Defaults for the broker connection.
const (
	// DefaultBrokerURL is the default websocket broker endpoint.
	DefaultBrokerURL = "wss://broker.hivemq.com:8884/mqtt"

	// DefaultTopic is the topic orders are published under.
	DefaultTopic = "senai/iot/pedidos"
)

// Config holds CLI configuration for comanda.
type Config struct {
	BrokerURL      string
	ClientIDPrefix string
	Topic          string
	QoS            int

	ReconnectInterval time.Duration
	ConnectTimeout    time.Duration
	KeepAlive         time.Duration

	HistoryLimit int
	StateDir     string
	Debug        bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		BrokerURL:         DefaultBrokerURL,
		ClientIDPrefix:    "comanda",
		Topic:             DefaultTopic,
		QoS:               1,
		ReconnectInterval: time.Second,
		ConnectTimeout:    10 * time.Second,
		KeepAlive:         30 * time.Second,
		HistoryLimit:      10,
		StateDir:          "", // Derived during Validate
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.BrokerURL == "" {
		return fmt.Errorf("broker-url is required")
	}
	if c.Topic == "" {
		return fmt.Errorf("topic is required")
	}
	if c.QoS < 0 || c.QoS > 2 {
		return fmt.Errorf("qos must be 0, 1 or 2")
	}
	if c.ReconnectInterval <= 0 {
		return fmt.Errorf("reconnect interval must be positive")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive")
	}

	if c.StateDir == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("state-dir is required (no home directory: %w)", err)
		}
		c.StateDir = filepath.Join(h, ".comanda")
	}

	return nil
}

// StatePath returns the path of the durable key-value store file.
func (c Config) StatePath() string {
	return filepath.Join(c.StateDir, "comanda.db")
}

// SessionClientID mints the per-session unique client identity sent to
// the broker. The session suffix keeps concurrent devices apart even
// though order ids are only device-scoped.
func (c Config) SessionClientID() string {
	return c.ClientIDPrefix + "-" + uuid.NewString()[:8]
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
