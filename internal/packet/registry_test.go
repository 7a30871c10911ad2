package packet

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/Assasans/protanki-server/internal/codec"
)

type loginPacket struct {
	Login    *string
	Password *string
	Remember bool
}

func (loginPacket) PacketName() string { return "loginPacket" }
func (loginPacket) PacketID() int32    { return -739684591 }
func (loginPacket) ModelID() int32     { return 7 }

type loginCodec struct{}

func (loginCodec) Encode(r *codec.Registry, w io.Writer, v loginPacket) error {
	if err := codec.EncodeField(r, w, "login", v.Login); err != nil {
		return err
	}
	if err := codec.EncodeField(r, w, "password", v.Password); err != nil {
		return err
	}
	return codec.EncodeField(r, w, "remember", v.Remember)
}

func (loginCodec) Decode(r *codec.Registry, rd io.Reader) (loginPacket, error) {
	var v loginPacket
	if err := codec.DecodeField(r, rd, "login", &v.Login); err != nil {
		return v, err
	}
	if err := codec.DecodeField(r, rd, "password", &v.Password); err != nil {
		return v, err
	}
	if err := codec.DecodeField(r, rd, "remember", &v.Remember); err != nil {
		return v, err
	}
	return v, nil
}

type pingPacket struct{}

func (pingPacket) PacketName() string { return "pingPacket" }
func (pingPacket) PacketID() int32    { return 1 }
func (pingPacket) ModelID() int32     { return 2 }

type pingCodec struct{}

func (pingCodec) Encode(*codec.Registry, io.Writer, pingPacket) error { return nil }
func (pingCodec) Decode(*codec.Registry, io.Reader) (pingPacket, error) {
	return pingPacket{}, nil
}

// impostor shares pingPacket's id but is a different type.
type impostor struct{}

func (impostor) PacketName() string { return "impostor" }
func (impostor) PacketID() int32    { return 1 }
func (impostor) ModelID() int32     { return 0 }

type impostorCodec struct{}

func (impostorCodec) Encode(*codec.Registry, io.Writer, impostor) error { return nil }
func (impostorCodec) Decode(*codec.Registry, io.Reader) (impostor, error) {
	return impostor{}, nil
}

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()

	r := NewRegistry()
	codec.Register[*string](r.Codecs(), codec.OptionCodec[string]{})
	if err := Register[loginPacket](r, loginCodec{}); err != nil {
		t.Fatal(err)
	}
	MustRegister[pingPacket](r, pingCodec{})
	return r
}

func ptr[T any](v T) *T { return &v }

func TestPacketRoundTrip(t *testing.T) {
	r := newTestRegistry(t)

	tests := []struct {
		name string
		in   loginPacket
	}{
		{"populated", loginPacket{Login: ptr("user"), Password: ptr("hunter2"), Remember: true}},
		{"empty options", loginPacket{}},
		{"empty strings", loginPacket{Login: ptr(""), Password: ptr("")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := r.Encode(&buf, tt.in); err != nil {
				t.Fatalf("encode: %v", err)
			}

			p, ok, err := r.Decode(&buf, tt.in.PacketID())
			if err != nil || !ok {
				t.Fatalf("decode: ok=%v err=%v", ok, err)
			}
			got, ok := As[loginPacket](p)
			if !ok {
				t.Fatalf("decoded %T, want loginPacket", p)
			}
			if !reflect.DeepEqual(got, tt.in) {
				t.Errorf("got %+v, want %+v", got, tt.in)
			}
			if buf.Len() != 0 {
				t.Errorf("%d bytes left unread", buf.Len())
			}
		})
	}
}

func TestDecodeUnregisteredID(t *testing.T) {
	r := newTestRegistry(t)

	p, ok, err := r.Decode(bytes.NewReader([]byte{1, 2, 3}), 12345)
	if p != nil || ok || err != nil {
		t.Fatalf("got (%v, %v, %v), want (nil, false, nil)", p, ok, err)
	}
}

func TestDecodeErrorNamesPacket(t *testing.T) {
	r := newTestRegistry(t)

	_, ok, err := r.Decode(bytes.NewReader([]byte{0, 0, 0, 0, 5}), loginPacket{}.PacketID())
	if !ok {
		t.Fatal("expected registered id")
	}
	if !errors.Is(err, codec.ErrIO) {
		t.Fatalf("expected i/o error, got %v", err)
	}
}

func TestDuplicateIDFails(t *testing.T) {
	r := newTestRegistry(t)

	err := Register[impostor](r, impostorCodec{})
	if err == nil {
		t.Fatal("expected error registering a duplicate id")
	}
	if !strings.Contains(err.Error(), "packet 1 (impostor) already registered as pingPacket") {
		t.Errorf("err = %v", err)
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected MustRegister to panic on a duplicate id")
		}
	}()
	MustRegister[impostor](r, impostorCodec{})
}

func TestEncodeUnknownPacketHasNoCodec(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Encode(io.Discard, NewUnknownPacket(777, []byte{1}))
	if !errors.Is(err, codec.ErrNoCodec) {
		t.Fatalf("expected no codec error, got %v", err)
	}
}

func TestEncodeDowncastMismatch(t *testing.T) {
	r := newTestRegistry(t)

	// impostor carries ping's id but was never registered.
	err := r.Encode(io.Discard, impostor{})
	if !errors.Is(err, codec.ErrDowncast) {
		t.Fatalf("expected downcast error, got %v", err)
	}
}

func TestEntries(t *testing.T) {
	r := newTestRegistry(t)

	entries := r.Entries()
	want := []Entry{
		{ID: -739684591, ModelID: 7, Name: "loginPacket"},
		{ID: 1, ModelID: 2, Name: "pingPacket"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("got %+v, want %+v", entries, want)
	}

	if e, ok := r.Lookup(1); !ok || e.Name != "pingPacket" {
		t.Errorf("lookup 1: got %+v, %v", e, ok)
	}
	if _, ok := r.Lookup(2); ok {
		t.Error("lookup 2: expected miss")
	}
}

func TestUnknownPacket(t *testing.T) {
	var p Packet = NewUnknownPacket(-5, []byte{9, 9})

	if p.ModelID() != UnknownModelID {
		t.Errorf("model id %d, want %d", p.ModelID(), UnknownModelID)
	}
	u, ok := As[*UnknownPacket](p)
	if !ok || u.ID != -5 || !bytes.Equal(u.Payload, []byte{9, 9}) {
		t.Errorf("downcast: got %+v, %v", u, ok)
	}
	if _, ok := As[pingPacket](p); ok {
		t.Error("unknown packet downcast to pingPacket")
	}
}
