package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Assasans/protanki-server/internal/api"
	"github.com/Assasans/protanki-server/internal/cli"
	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/events"
	"github.com/Assasans/protanki-server/internal/health"
	"github.com/Assasans/protanki-server/internal/journal"
	"github.com/Assasans/protanki-server/internal/metrics"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/scheduler"
	"github.com/Assasans/protanki-server/internal/session"
	"github.com/Assasans/protanki-server/internal/telemetry"
	"github.com/Assasans/protanki-server/internal/util"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var console bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, console)
		},
	}
	cmd.Flags().BoolVar(&console, "console", false, "read operator commands from stdin")
	return cmd
}

// opener is implemented by observers that want to know about accepted
// connections before any traffic flows.
type opener interface {
	Opened(c *network.Connection)
}

func runServe(ctx context.Context, opts *rootOptions, console bool) error {
	fmt.Printf(banner, version)
	fmt.Println()

	cfg, err := loadConfig(opts.configDir, "protanki")
	if err != nil {
		return err
	}

	validation := config.Validate(cfg)
	validation.LogWarnings()
	if !validation.IsValid() {
		for _, e := range validation.Errors {
			log.Error().Str("field", e.Field).Msg(e.Message)
		}
		return errors.New("configuration validation failed, please fix the errors above")
	}

	sysInfo := util.GetSystemInfo()
	log.Info().
		Str("version", version).
		Str("hostname", sysInfo.Hostname).
		Str("os", sysInfo.OS).
		Int("cores", sysInfo.CPUCores).
		Uint64("memory_mb", sysInfo.TotalMemory).
		Msg("starting protanki server")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverData := cfg.GetServerData()
	appData := cfg.GetApplicationData()

	var tlsConfig *tls.Config
	if serverData.TLS.Enabled {
		tlsConfig, err = util.ServerTLSConfig(serverData.TLS.CertFile, serverData.TLS.KeyFile, serverData.TLS.AutoGenerate)
		if err != nil {
			return err
		}
	}

	bus := events.NewBus()
	defer bus.Stop()

	var openers []opener
	eventObserver := events.NewObserver(ctx, bus, "server")
	openers = append(openers, eventObserver)
	connOpts := []network.Option{
		network.WithLogger(util.ComponentLogger("connection")),
		network.WithObserver(eventObserver),
	}

	var apiOpts []api.Option
	apiOpts = append(apiOpts, api.WithVersion(version))

	if appData.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		collector := metrics.New(metrics.WithRegistry(reg))
		openers = append(openers, collector)
		connOpts = append(connOpts, network.WithObserver(collector))
		apiOpts = append(apiOpts, api.WithMetrics(reg))
	}

	var packetJournal *journal.Journal
	if appData.Journal.Enabled {
		db, err := journal.OpenDatabase(appData.Journal.Path)
		if err != nil {
			return err
		}
		defer db.Close()

		packetJournal, err = journal.New(db, 0)
		if err != nil {
			return err
		}
		openers = append(openers, packetJournal)
		connOpts = append(connOpts, network.WithObserver(packetJournal))
		apiOpts = append(apiOpts, api.WithJournal(packetJournal))
	}

	game := network.NewServer(serverData.Addr(), tlsConfig, newRegistry(), connOpts...)
	if err := game.Listen(ctx); err != nil {
		return err
	}

	sessions := session.NewServer()
	if serverData.Dependencies != "" {
		sessions.Dependencies = serverData.Dependencies
	}
	handler := func(ctx context.Context, c *network.Connection) error {
		for _, o := range openers {
			o.Opened(c)
		}
		return sessions.Serve(ctx, c)
	}

	healthMgr := health.NewManager(cfg, bus, game, packetJournal)
	apiOpts = append(apiOpts, api.WithHealth(healthMgr))

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return game.Serve(gctx, handler)
	})

	if packetJournal != nil {
		group.Go(func() error {
			return packetJournal.Run(gctx)
		})
	}

	if appData.API.Enabled {
		if serverData.WebSocket.Enabled {
			ws := network.WebSocketHandler(gctx, game, handler, serverData.WebSocket.AllowedOrigins)
			apiOpts = append(apiOpts, api.WithWebSocket(serverData.WebSocket.Path, ws))
		}
		apiServer := api.NewServer(cfg, bus, game, apiOpts...)
		group.Go(func() error {
			log.Info().Int("port", appData.API.Port).Msg("starting REST API server")
			if err := apiServer.Start(gctx); err != nil {
				log.Warn().Err(err).Msg("API server failed (non-fatal)")
			}
			return nil
		})
	} else if serverData.WebSocket.Enabled {
		log.Warn().Msg("websocket transport needs the API server, ignoring")
	}

	publisher, err := telemetry.NewPublisher(appData.MQTT, bus, version)
	switch {
	case errors.Is(err, telemetry.ErrDisabled):
	case err != nil:
		log.Warn().Err(err).Msg("failed to initialize MQTT, telemetry disabled")
	default:
		group.Go(func() error {
			log.Info().Msg("starting MQTT telemetry")
			if err := publisher.Start(gctx); err != nil {
				log.Warn().Err(err).Msg("MQTT telemetry failed")
			}
			return nil
		})
	}

	group.Go(func() error {
		healthMgr.Start(gctx)
		return nil
	})

	sched := scheduler.NewScheduler(cfg, game, packetJournal)
	group.Go(func() error {
		sched.Start(gctx)
		return nil
	})

	if console {
		group.Go(func() error {
			err := cli.NewConsole(cfg, bus, game).Run(gctx, os.Stdin, os.Stdout)
			if errors.Is(err, cli.ErrQuit) {
				stop()
				return nil
			}
			return err
		})
	}

	<-gctx.Done()
	log.Info().Msg("initiating graceful shutdown...")

	bus.Emit(context.Background(), events.Event{
		Type:   events.EventShutdown,
		Source: "main",
		Time:   time.Now(),
	})

	if err := group.Wait(); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return err
	}
	log.Info().Msg("protanki server stopped")
	return nil
}
