package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	BrokerURL         string `toml:"broker_url"`
	ClientIDPrefix    string `toml:"client_id_prefix"`
	Topic             string `toml:"topic"`
	QoS               int    `toml:"qos"`
	ReconnectInterval string `toml:"reconnect_interval"`
	ConnectTimeout    string `toml:"connect_timeout"`
	KeepAlive         string `toml:"keep_alive"`
	HistoryLimit      int    `toml:"history_limit"`
	StateDir          string `toml:"state_dir"`
	Debug             *bool  `toml:"debug"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.comanda/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".comanda", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("broker-url", fc.BrokerURL, &cfg.BrokerURL)
	s.setString("client-id-prefix", fc.ClientIDPrefix, &cfg.ClientIDPrefix)
	s.setString("topic", fc.Topic, &cfg.Topic)
	s.setString("state-dir", fc.StateDir, &cfg.StateDir)

	s.setInt("qos", fc.QoS, &cfg.QoS)
	s.setInt("history-limit", fc.HistoryLimit, &cfg.HistoryLimit)

	if err := s.setDuration("reconnect-interval", fc.ReconnectInterval, &cfg.ReconnectInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", fc.ConnectTimeout, &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("keep-alive", fc.KeepAlive, &cfg.KeepAlive); err != nil {
		return err
	}

	s.setBool("debug", fc.Debug, &cfg.Debug)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
