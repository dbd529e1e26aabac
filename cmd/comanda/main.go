package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	boltStore "github.com/smartprint/comanda/internal/adapters/bolt"
	logAdapter "github.com/smartprint/comanda/internal/adapters/log"
	"github.com/smartprint/comanda/internal/adapters/mqtt"
	"github.com/smartprint/comanda/internal/app"
	"github.com/smartprint/comanda/internal/cliconfig"
	"github.com/smartprint/comanda/internal/ports"
)

const helpDescription = `
Capture table orders at the point of sale and publish them to the kitchen
over MQTT.

Highlights:
  - Orders are published with at-least-once broker acknowledgment (QoS 1).
  - The connection reconnects on its own; no order is ever queued offline.
  - Delivered orders are cached locally, newest first, bounded to the
    configured history limit, and survive restarts.
  - Configure via file ($HOME/.comanda/config.toml), COMANDA_* environment
    variables, or flags.
`

var exampleUsage = strings.TrimSpace(`
  comanda
  comanda --broker-url wss://broker.example.com:8884/mqtt --topic kitchen/orders
  comanda --config ./config.toml --state-dir /var/lib/comanda
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger()

	root := &cobra.Command{
		Use:     "comanda",
		Short:   "Capture table orders and publish them to the kitchen over MQTT",
		Long:    strings.TrimSpace(helpDescription),
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.comanda/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			// Build set of changed flags
			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment variables (COMANDA_*) override file config but
			// are overridden by flags (checked via changed map).
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.Debug {
				log = log.Level(zerolog.DebugLevel)
			} else {
				log = log.Level(zerolog.InfoLevel)
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
				return fmt.Errorf("state dir: %w", err)
			}

			logger := logAdapter.NewZerologAdapterWithLogger(log)

			transport := mqtt.NewManager(mqtt.Config{
				BrokerURL:         cfg.BrokerURL,
				ClientID:          cfg.SessionClientID(),
				ReconnectInterval: cfg.ReconnectInterval,
				ConnectTimeout:    cfg.ConnectTimeout,
				KeepAlive:         cfg.KeepAlive,
			}, logger)

			store := boltStore.NewStore(cfg.StatePath())
			notifier := newConsoleNotifier(os.Stdout)

			a := app.New(app.Config{
				Topic:        cfg.Topic,
				QoS:          byte(cfg.QoS),
				HistoryLimit: cfg.HistoryLimit,
			}, transport, store, notifier, logger)

			if err := a.Start(); err != nil {
				return fmt.Errorf("start: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				watcher := newRuntimeConfigWatcher(cfgFile, cfg, transport, logger)
				go watcher.Run(ctx)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			replDone := make(chan struct{})
			go func() {
				defer close(replDone)
				newREPL(a, os.Stdin, os.Stdout).run(ctx)
			}()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
				cancel()
			case <-replDone:
			}

			if err := a.Stop(); err != nil {
				return fmt.Errorf("stop: %w", err)
			}
			return nil
		},
	}

	// Flags
	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.comanda/config.toml)")
	root.Flags().StringVar(&cfg.BrokerURL, "broker-url", cfg.BrokerURL, "websocket broker endpoint")
	root.Flags().StringVar(&cfg.ClientIDPrefix, "client-id-prefix", cfg.ClientIDPrefix, "prefix of the per-session broker client identity")
	root.Flags().StringVar(&cfg.Topic, "topic", cfg.Topic, "topic orders are published under")
	root.Flags().IntVar(&cfg.QoS, "qos", cfg.QoS, "delivery level requested from the broker (0, 1 or 2)")

	root.Flags().DurationVar(&cfg.ReconnectInterval, "reconnect-interval", cfg.ReconnectInterval, "fixed broker reconnect interval")
	root.Flags().DurationVar(&cfg.ConnectTimeout, "connect-timeout", cfg.ConnectTimeout, "timeout of a single connection attempt")
	root.Flags().DurationVar(&cfg.KeepAlive, "keep-alive", cfg.KeepAlive, "MQTT keep-alive interval")

	root.Flags().IntVar(&cfg.HistoryLimit, "history-limit", cfg.HistoryLimit, "number of delivered orders kept in the recent history")
	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "directory for the durable order cache (defaults to ~/.comanda)")
	root.Flags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("comanda")
		os.Exit(1)
	}
}

// runtimeConfigWatcher applies the subset of config changes that are safe
// at runtime: a broker endpoint change reconnects the transport, a topic
// change requires a restart and is only reported.
type runtimeConfigWatcher struct {
	*cliconfig.Watcher
}

func newRuntimeConfigWatcher(path string, cfg cliconfig.Config, transport *mqtt.Manager, logger ports.Logger) *runtimeConfigWatcher {
	broker := cfg.BrokerURL
	topic := cfg.Topic

	w := &runtimeConfigWatcher{}
	w.Watcher = cliconfig.NewWatcher(path, logger, func(fc cliconfig.FileConfig) {
		if fc.BrokerURL != "" && fc.BrokerURL != broker {
			logger.Info("broker endpoint changed, reconnecting",
				ports.String("broker", fc.BrokerURL))
			broker = fc.BrokerURL
			transport.Reconnect(broker)
		}
		if fc.Topic != "" && fc.Topic != topic {
			logger.Warn("topic changed in config file, restart to apply",
				ports.String("topic", fc.Topic))
			topic = fc.Topic
		}
	})
	return w
}
