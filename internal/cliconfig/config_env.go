package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (COMANDA_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("broker-url", os.Getenv("COMANDA_BROKER_URL"), &cfg.BrokerURL)
	s.setString("client-id-prefix", os.Getenv("COMANDA_CLIENT_ID_PREFIX"), &cfg.ClientIDPrefix)
	s.setString("topic", os.Getenv("COMANDA_TOPIC"), &cfg.Topic)
	s.setString("state-dir", os.Getenv("COMANDA_STATE_DIR"), &cfg.StateDir)

	if err := s.setDuration("reconnect-interval", os.Getenv("COMANDA_RECONNECT_INTERVAL"), &cfg.ReconnectInterval); err != nil {
		return err
	}
	if err := s.setDuration("connect-timeout", os.Getenv("COMANDA_CONNECT_TIMEOUT"), &cfg.ConnectTimeout); err != nil {
		return err
	}
	if err := s.setDuration("keep-alive", os.Getenv("COMANDA_KEEP_ALIVE"), &cfg.KeepAlive); err != nil {
		return err
	}

	if err := s.setIntFromString("qos", os.Getenv("COMANDA_QOS"), &cfg.QoS); err != nil {
		return err
	}
	if err := s.setIntFromString("history-limit", os.Getenv("COMANDA_HISTORY_LIMIT"), &cfg.HistoryLimit); err != nil {
		return err
	}

	s.setBoolFromString("debug", os.Getenv("COMANDA_DEBUG"), &cfg.Debug)

	return nil
}
