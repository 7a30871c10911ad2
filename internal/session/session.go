// Package session implements the encryption handshake and the reference
// client login flow on top of network connections.
package session

import (
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/Assasans/protanki-server/internal/crypto"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

// DefaultDependencies is the empty resource manifest sent to clients.
const DefaultDependencies = `{"resources":[]}`

func toProtectionData(key []byte) []int8 {
	data := make([]int8, len(key))
	for i, b := range key {
		data[i] = int8(b)
	}
	return data
}

func fromProtectionData(data []int8) []byte {
	key := make([]byte, len(data))
	for i, b := range data {
		key[i] = byte(b)
	}
	return key
}

// ServerHandshake sends a fresh key in the clear and switches c to the server
// side of the XOR cipher. Every frame sent afterwards is encrypted.
func ServerHandshake(c *network.Connection) error {
	key, err := crypto.GenerateKey()
	if err != nil {
		return err
	}
	if err := c.Send(packets.S2CSessionInitializeEncryption{ProtectionData: toProtectionData(key)}); err != nil {
		return errors.Wrap(err, "send encryption key")
	}
	c.SetCipher(crypto.NewXorContext(crypto.ModeServer, key))
	return nil
}

// Server answers the session packets of the reference flow: it serves an
// empty resource manifest and rejects every login.
type Server struct {
	Dependencies string
}

func NewServer() *Server {
	return &Server{Dependencies: DefaultDependencies}
}

// Serve performs the handshake and then runs c until it disconnects. It
// satisfies network.ConnHandler.
func (s *Server) Serve(ctx context.Context, c *network.Connection) error {
	if err := ServerHandshake(c); err != nil {
		c.Close()
		return err
	}
	return c.Run(ctx, s.Handle)
}

// Handle is the server's packet handler.
func (s *Server) Handle(_ context.Context, c *network.Connection, p packet.Packet) error {
	switch p := p.(type) {
	case packets.C2SSessionEncryptionInitialized:
		lang := ""
		if p.Lang != nil {
			lang = *p.Lang
		}
		c.Logger().Info().Str("lang", lang).Msg("client initialized encryption")
		return c.Send(packets.S2CSessionResourcesLoadDependencies{Dependencies: s.Dependencies, CallbackID: 1})

	case packets.C2SSessionResourcesDependenciesLoaded:
		c.Logger().Debug().Int32("callback_id", p.CallbackID).Msg("client loaded dependencies")
		return c.Send(packets.S2CSessionResourcesResourcesLoaded{})

	case packets.C2SAuthUsernameLogin:
		login := ""
		if p.Login != nil {
			login = *p.Login
		}
		c.Logger().Info().Str("login", login).Msg("rejecting login")
		return c.Send(packets.S2CAuthLoginFailed{})

	default:
		c.Logger().Debug().Str("packet", p.PacketName()).Int32("packet_id", p.PacketID()).Msg("unhandled packet")
		return nil
	}
}

// Credentials are the account details the client logs in with.
type Credentials struct {
	Username string
	Password string
	Remember bool
}

// CredentialsFunc supplies credentials when the server asks for a login.
type CredentialsFunc func() (Credentials, error)

// EnvCredentials reads the username and password from the named environment
// variables.
func EnvCredentials(usernameVar, passwordVar string) CredentialsFunc {
	return func() (Credentials, error) {
		username, ok := os.LookupEnv(usernameVar)
		if !ok {
			return Credentials{}, errors.Errorf("environment variable %s is not set", usernameVar)
		}
		password, ok := os.LookupEnv(passwordVar)
		if !ok {
			return Credentials{}, errors.Errorf("environment variable %s is not set", passwordVar)
		}
		return Credentials{Username: username, Password: password}, nil
	}
}

// ErrLoginFailed is returned by Client.Handle when the server rejects the
// login.
var ErrLoginFailed = errors.New("login failed")

// Client drives the client side of the session: it follows the server's key,
// acknowledges resource loading and logs in once resources are loaded.
type Client struct {
	Lang        string
	Credentials CredentialsFunc
}

func NewClient(lang string, creds CredentialsFunc) *Client {
	return &Client{Lang: lang, Credentials: creds}
}

// Handle is the client's packet handler.
func (cl *Client) Handle(_ context.Context, c *network.Connection, p packet.Packet) error {
	switch p := p.(type) {
	case packets.S2CSessionInitializeEncryption:
		key := fromProtectionData(p.ProtectionData)
		c.Logger().Debug().Hex("key", key).Msg("received encryption key")

		c.SetCipher(crypto.NewXorContext(crypto.ModeClient, key))
		var lang *string
		if cl.Lang != "" {
			lang = &cl.Lang
		}
		return c.Send(packets.C2SSessionEncryptionInitialized{Lang: lang})

	case packets.S2CSessionResourcesLoadDependencies:
		return c.Send(packets.C2SSessionResourcesDependenciesLoaded{CallbackID: p.CallbackID})

	case packets.S2CSessionResourcesResourcesLoaded:
		creds, err := cl.Credentials()
		if err != nil {
			return errors.Wrap(err, "credentials")
		}
		c.Logger().Info().Str("login", creds.Username).Msg("logging in")
		return c.Send(packets.C2SAuthUsernameLogin{
			Login:    &creds.Username,
			Password: &creds.Password,
			Remember: creds.Remember,
		})

	case packets.S2CAuthLoginFailed:
		return ErrLoginFailed

	default:
		c.Logger().Debug().Str("packet", p.PacketName()).Int32("packet_id", p.PacketID()).Msg("packet")
		return nil
	}
}
