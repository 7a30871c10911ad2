package packet

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/Assasans/protanki-server/internal/codec"
)

// Registry maps packet ids to payload codecs. It owns the codec registry the
// payload codecs decode their fields through.
//
// Like the codec registry it is filled once during startup and only read
// afterwards, so lookups from many connections need no locking.
type Registry struct {
	codecs  *codec.Registry
	packets map[int32]registered
}

// NewRegistry returns a registry whose codec registry already holds the
// primitive, string and primitive-vector codecs.
func NewRegistry() *Registry {
	codecs := codec.NewRegistry()
	codec.RegisterPrimitives(codecs)

	return &Registry{
		codecs:  codecs,
		packets: make(map[int32]registered),
	}
}

// Codecs returns the codec registry used for payload fields.
func (r *Registry) Codecs() *codec.Registry {
	return r.codecs
}

// Register binds the payload type T to its packet id, taken from T's zero
// value, and registers c as T's codec. It fails if the id is already bound.
func Register[T Packet](r *Registry, c codec.Codec[T]) error {
	var zero T
	id := zero.PacketID()
	if existing, exists := r.packets[id]; exists {
		return errors.Errorf("packet %d (%s) already registered as %s", id, zero.PacketName(), existing.name())
	}

	codec.Register(r.codecs, c)
	r.packets[id] = &registeredPacket[T]{
		packetName: zero.PacketName(),
		model:      zero.ModelID(),
		codec:      c,
	}
	return nil
}

// MustRegister is Register for startup code: a duplicate id is a broken
// protocol definition and panics.
func MustRegister[T Packet](r *Registry, c codec.Codec[T]) {
	if err := Register(r, c); err != nil {
		panic(err)
	}
}

// Encode writes the payload of p using the codec bound to its id.
func (r *Registry) Encode(w io.Writer, p Packet) error {
	entry, ok := r.packets[p.PacketID()]
	if !ok {
		return codec.NoCodec(fmt.Sprintf("Packet[%d]@%s", p.PacketID(), p.PacketName()))
	}
	if err := entry.encode(r.codecs, w, p); err != nil {
		return errors.WithMessagef(err, "encode %s", entry.name())
	}
	return nil
}

// Decode reads a payload of the type bound to id. The boolean is false, with
// no error, when id is not registered.
func (r *Registry) Decode(rd io.Reader, id int32) (Packet, bool, error) {
	entry, ok := r.packets[id]
	if !ok {
		return nil, false, nil
	}
	p, err := entry.decode(r.codecs, rd)
	if err != nil {
		return nil, true, errors.WithMessagef(err, "decode %s", entry.name())
	}
	return p, true, nil
}

// Entry describes one registered packet.
type Entry struct {
	ID      int32  `json:"id"`
	ModelID int32  `json:"model_id"`
	Name    string `json:"name"`
}

// Lookup returns the entry bound to id.
func (r *Registry) Lookup(id int32) (Entry, bool) {
	entry, ok := r.packets[id]
	if !ok {
		return Entry{}, false
	}
	return Entry{ID: id, ModelID: entry.modelID(), Name: entry.name()}, true
}

// Entries returns all registered packets ordered by id.
func (r *Registry) Entries() []Entry {
	entries := make([]Entry, 0, len(r.packets))
	for id, entry := range r.packets {
		entries = append(entries, Entry{ID: id, ModelID: entry.modelID(), Name: entry.name()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries
}

// Len returns the number of registered packets.
func (r *Registry) Len() int {
	return len(r.packets)
}
