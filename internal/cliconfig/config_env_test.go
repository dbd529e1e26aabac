package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		changed  map[string]bool
		expected Config
		wantErr  bool
	}{
		{
			name: "applies all values when no flags changed",
			env: map[string]string{
				"COMANDA_BROKER_URL":         "wss://env.example.com:8884/mqtt",
				"COMANDA_CLIENT_ID_PREFIX":   "tablet",
				"COMANDA_TOPIC":              "env/topic",
				"COMANDA_STATE_DIR":          "/tmp/comanda",
				"COMANDA_RECONNECT_INTERVAL": "5s",
				"COMANDA_CONNECT_TIMEOUT":    "20s",
				"COMANDA_KEEP_ALIVE":         "60s",
				"COMANDA_QOS":                "2",
				"COMANDA_HISTORY_LIMIT":      "25",
				"COMANDA_DEBUG":              "true",
			},
			changed: map[string]bool{},
			expected: Config{
				BrokerURL:         "wss://env.example.com:8884/mqtt",
				ClientIDPrefix:    "tablet",
				Topic:             "env/topic",
				QoS:               2,
				ReconnectInterval: 5 * time.Second,
				ConnectTimeout:    20 * time.Second,
				KeepAlive:         60 * time.Second,
				HistoryLimit:      25,
				StateDir:          "/tmp/comanda",
				Debug:             true,
			},
		},
		{
			name: "respects changed flags",
			env: map[string]string{
				"COMANDA_BROKER_URL": "wss://env.example.com:8884/mqtt",
				"COMANDA_TOPIC":      "env/topic",
			},
			changed: map[string]bool{"broker-url": true},
			expected: func() Config {
				c := DefaultConfig()
				c.Topic = "env/topic"
				return c
			}(),
		},
		{
			name:     "no env leaves defaults",
			env:      map[string]string{},
			changed:  map[string]bool{},
			expected: DefaultConfig(),
		},
		{
			name:    "invalid duration",
			env:     map[string]string{"COMANDA_RECONNECT_INTERVAL": "soon"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "invalid qos",
			env:     map[string]string{"COMANDA_QOS": "one"},
			changed: map[string]bool{},
			wantErr: true,
		},
		{
			name:    "debug accepts 1",
			env:     map[string]string{"COMANDA_DEBUG": "1"},
			changed: map[string]bool{},
			expected: func() Config {
				c := DefaultConfig()
				c.Debug = true
				return c
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := DefaultConfig()
			err := ApplyEnvConfig(&cfg, tt.changed)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ApplyEnvConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if cfg.BrokerURL != tt.expected.BrokerURL {
				t.Errorf("BrokerURL = %q, want %q", cfg.BrokerURL, tt.expected.BrokerURL)
			}
			if cfg.ClientIDPrefix != tt.expected.ClientIDPrefix {
				t.Errorf("ClientIDPrefix = %q, want %q", cfg.ClientIDPrefix, tt.expected.ClientIDPrefix)
			}
			if cfg.Topic != tt.expected.Topic {
				t.Errorf("Topic = %q, want %q", cfg.Topic, tt.expected.Topic)
			}
			if cfg.QoS != tt.expected.QoS {
				t.Errorf("QoS = %d, want %d", cfg.QoS, tt.expected.QoS)
			}
			if cfg.ReconnectInterval != tt.expected.ReconnectInterval {
				t.Errorf("ReconnectInterval = %v, want %v", cfg.ReconnectInterval, tt.expected.ReconnectInterval)
			}
			if cfg.ConnectTimeout != tt.expected.ConnectTimeout {
				t.Errorf("ConnectTimeout = %v, want %v", cfg.ConnectTimeout, tt.expected.ConnectTimeout)
			}
			if cfg.KeepAlive != tt.expected.KeepAlive {
				t.Errorf("KeepAlive = %v, want %v", cfg.KeepAlive, tt.expected.KeepAlive)
			}
			if cfg.HistoryLimit != tt.expected.HistoryLimit {
				t.Errorf("HistoryLimit = %d, want %d", cfg.HistoryLimit, tt.expected.HistoryLimit)
			}
			if cfg.StateDir != tt.expected.StateDir {
				t.Errorf("StateDir = %q, want %q", cfg.StateDir, tt.expected.StateDir)
			}
			if cfg.Debug != tt.expected.Debug {
				t.Errorf("Debug = %v, want %v", cfg.Debug, tt.expected.Debug)
			}
		})
	}
}
