package session

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Assasans/protanki-server/internal/crypto"
	"github.com/Assasans/protanki-server/internal/network"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

func newRegistry() *packet.Registry {
	r := packet.NewRegistry()
	packets.Register(r)
	return r
}

func startServer(t *testing.T, ctx context.Context) *network.Server {
	t.Helper()
	s := network.NewServer("127.0.0.1:0", nil, newRegistry(), network.WithLogger(zerolog.Nop()))
	if err := s.Listen(ctx); err != nil {
		t.Fatal(err)
	}
	go s.Serve(ctx, NewServer().Serve)
	return s
}

func dial(t *testing.T, s *network.Server) *network.Connection {
	t.Helper()
	raw, err := net.Dial("tcp", s.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	return network.NewConnection(raw, newRegistry(), network.WithLogger(zerolog.Nop()))
}

func TestProtectionDataConversion(t *testing.T) {
	key := []byte{0x00, 0x7f, 0x80, 0xff}
	data := toProtectionData(key)
	if want := []int8{0, 127, -128, -1}; len(data) != 4 || data[2] != want[2] || data[3] != want[3] {
		t.Fatalf("got %v, want %v", data, want)
	}
	back := fromProtectionData(data)
	for i := range key {
		if back[i] != key[i] {
			t.Fatalf("round trip: got % x, want % x", back, key)
		}
	}
}

func TestServerHandshake(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := startServer(t, ctx)

	c := dial(t, s)
	defer c.Close()

	p, err := c.Next()
	if err != nil {
		t.Fatal(err)
	}
	key, ok := packet.As[packets.S2CSessionInitializeEncryption](p)
	if !ok {
		t.Fatalf("first packet is %T", p)
	}
	if len(key.ProtectionData) != crypto.KeySize {
		t.Fatalf("key has %d bytes", len(key.ProtectionData))
	}

	c.SetCipher(crypto.NewXorContext(crypto.ModeClient, fromProtectionData(key.ProtectionData)))
	if err := c.Send(packets.C2SSessionEncryptionInitialized{}); err != nil {
		t.Fatal(err)
	}
	if err := c.Flush(); err != nil {
		t.Fatal(err)
	}

	p, err = c.Next()
	if err != nil {
		t.Fatal(err)
	}
	deps, ok := packet.As[packets.S2CSessionResourcesLoadDependencies](p)
	if !ok || deps.Dependencies != DefaultDependencies {
		t.Fatalf("got %v", p)
	}
}

func TestClientLoginFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := startServer(t, ctx)

	c := dial(t, s)
	asked := false
	client := NewClient("en", func() (Credentials, error) {
		asked = true
		return Credentials{Username: "tester", Password: "secret"}, nil
	})

	err := c.Run(ctx, client.Handle)
	if !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("Run = %v, want ErrLoginFailed", err)
	}
	if !asked {
		t.Error("credentials were never requested")
	}
	if name := c.Cipher().Name(); name != "xor/client" {
		t.Errorf("client cipher = %s", name)
	}
}

func TestClientCredentialsError(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s := startServer(t, ctx)

	c := dial(t, s)
	client := NewClient("", EnvCredentials("PROTANKI_TEST_MISSING_USER", "PROTANKI_TEST_MISSING_PASS"))
	if err := c.Run(ctx, client.Handle); err == nil || errors.Is(err, ErrLoginFailed) {
		t.Fatalf("Run = %v, want a credentials error", err)
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("PROTANKI_TEST_USER", "alice")
	t.Setenv("PROTANKI_TEST_PASS", "hunter2")

	creds, err := EnvCredentials("PROTANKI_TEST_USER", "PROTANKI_TEST_PASS")()
	if err != nil {
		t.Fatal(err)
	}
	if creds.Username != "alice" || creds.Password != "hunter2" || creds.Remember {
		t.Errorf("got %+v", creds)
	}

	if _, err := EnvCredentials("PROTANKI_TEST_USER", "PROTANKI_TEST_UNSET")(); err == nil {
		t.Error("missing password variable was accepted")
	}
}
