package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/session"
	"github.com/Assasans/protanki-server/internal/util"
)

type connectOptions struct {
	address   string
	websocket string
	lang      string
}

func connectCmd(opts *rootOptions) *cobra.Command {
	var copts connectOptions

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Run the reference client against a server",
		Long: `Connects to a game server, completes the encryption handshake, acknowledges
resource loading and logs in with credentials read from the environment
variables named in the client section of the configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConnect(cmd.Context(), opts, copts)
		},
	}
	cmd.Flags().StringVar(&copts.address, "address", "", "server host:port (overrides config)")
	cmd.Flags().StringVar(&copts.websocket, "websocket", "", "connect over websocket to this ws:// or wss:// URL instead of TCP")
	cmd.Flags().StringVar(&copts.lang, "lang", "", "language sent during the handshake (overrides config)")
	return cmd
}

func runConnect(ctx context.Context, opts *rootOptions, copts connectOptions) error {
	cfg, err := loadConfig(opts.configDir, "protanki-client")
	if err != nil {
		return err
	}
	clientData := cfg.GetClientData()
	if copts.address != "" {
		clientData.Address = copts.address
	}
	if copts.lang != "" {
		clientData.Language = copts.lang
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var tlsConfig *tls.Config
	if clientData.UseTLS {
		tlsConfig = &tls.Config{
			MinVersion:         tls.VersionTLS12,
			InsecureSkipVerify: clientData.InsecureSkipVerify,
		}
	}

	socket, err := dial(ctx, clientData.Address, copts.websocket, tlsConfig)
	if err != nil {
		return err
	}

	c := network.NewConnection(socket, newRegistry(), network.WithLogger(util.ComponentLogger("client")))
	client := session.NewClient(clientData.Language, session.EnvCredentials(clientData.UsernameEnv, clientData.PasswordEnv))

	err = c.Run(ctx, client.Handle)
	if errors.Is(err, session.ErrLoginFailed) {
		log.Warn().Str("address", c.RemoteAddr().String()).Msg("server rejected the login")
	}
	return err
}

func dial(ctx context.Context, address, wsURL string, tlsConfig *tls.Config) (network.Socket, error) {
	if wsURL != "" {
		dialer := *websocket.DefaultDialer
		dialer.TLSClientConfig = tlsConfig
		conn, _, err := dialer.DialContext(ctx, wsURL, nil)
		if err != nil {
			return nil, err
		}
		log.Info().Str("url", wsURL).Msg("connected over websocket")
		return network.NewWebSocketSocket(conn), nil
	}

	d := &net.Dialer{Timeout: 10 * time.Second}
	var (
		conn net.Conn
		err  error
	)
	if tlsConfig != nil {
		conn, err = (&tls.Dialer{NetDialer: d, Config: tlsConfig}).DialContext(ctx, "tcp", address)
	} else {
		conn, err = d.DialContext(ctx, "tcp", address)
	}
	if err != nil {
		return nil, err
	}
	log.Info().Str("address", address).Bool("tls", tlsConfig != nil).Msg("connected")
	return conn, nil
}
