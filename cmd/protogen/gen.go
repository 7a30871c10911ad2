package main

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/tools/imports"
)

const (
	codecPkg  = "github.com/Assasans/protanki-server/internal/codec"
	packetPkg = "github.com/Assasans/protanki-server/internal/packet"
)

type generator struct {
	buf bytes.Buffer
}

func (g *generator) p(format string, args ...any) {
	fmt.Fprintf(&g.buf, format, args...)
	g.buf.WriteByte('\n')
}

// Generate renders the Go source for s as package pkg. source is the schema
// path recorded in the header.
func Generate(s *Schema, pkg, source string) ([]byte, error) {
	g := &generator{}

	g.p("// Code generated by protogen from %s. DO NOT EDIT.", source)
	g.p("")
	g.p("package %s", pkg)
	g.p("")
	g.p("import (")
	g.p("%q", "fmt")
	g.p("%q", "io")
	g.p("")
	g.p("%q", codecPkg)
	g.p("%q", packetPkg)
	g.p(")")
	g.p("")

	for _, e := range s.Enums {
		g.enum(e)
	}
	for _, st := range s.Structs {
		g.record(st.Name, st.Fields)
	}
	for _, p := range s.Packets {
		g.packet(p)
	}
	g.register(s)

	out, err := imports.Process(pkg+"_gen.go", g.buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("format generated code: %w\n%s", err, g.buf.Bytes())
	}
	return out, nil
}

func lowerFirst(s string) string {
	return strings.ToLower(s[:1]) + s[1:]
}

func (g *generator) enum(e Enum) {
	names := lowerFirst(e.Name) + "Names"

	g.p("type %s int32", e.Name)
	g.p("")
	g.p("const (")
	g.p("%[1]sUndefined %[1]s = -1", e.Name)
	for _, v := range e.Variants {
		g.p("%s%s %s = %d", e.Name, v.Name, e.Name, v.Value)
	}
	g.p(")")
	g.p("")
	g.p("var %s = map[%s]string{", names, e.Name)
	for _, v := range e.Variants {
		g.p("%s%s: %q,", e.Name, v.Name, v.Name)
	}
	g.p("}")
	g.p("")
	g.p("func (v %s) String() string {", e.Name)
	g.p("if name, ok := %s[v]; ok {", names)
	g.p("return name")
	g.p("}")
	g.p("if v == %sUndefined {", e.Name)
	g.p(`return "Undefined"`)
	g.p("}")
	g.p(`return fmt.Sprintf("%s(%%d)", int32(v))`, e.Name)
	g.p("}")
	g.p("")
}

func (g *generator) record(name string, fields []Field) {
	g.p("type %s struct {", name)
	for _, f := range fields {
		g.p("%s %s", FieldName(f.Name), f.Type)
	}
	g.p("}")
	g.p("")

	g.p("type %sCodec struct{}", name)
	g.p("")

	g.p("func (%sCodec) Encode(r *codec.Registry, w io.Writer, v %s) error {", name, name)
	for _, f := range fields {
		g.p("if err := codec.EncodeField(r, w, %q, v.%s); err != nil {", f.Name, FieldName(f.Name))
		g.p("return err")
		g.p("}")
	}
	g.p("return nil")
	g.p("}")
	g.p("")

	g.p("func (%sCodec) Decode(r *codec.Registry, rd io.Reader) (%s, error) {", name, name)
	g.p("var v %s", name)
	for _, f := range fields {
		g.p("if err := codec.DecodeField(r, rd, %q, &v.%s); err != nil {", f.Name, FieldName(f.Name))
		g.p("return v, err")
		g.p("}")
	}
	g.p("return v, nil")
	g.p("}")
	g.p("")
}

func (g *generator) packet(p Packet) {
	name := TypeName(p.Name)

	if p.Unnamed {
		g.p("// %s is a placeholder for packet %d (model %d), which has no name.", name, p.ID, p.Model)
		g.p("// It is not registered, so its frames decode as packet.UnknownPacket.")
	} else {
		g.p("// %s is packet %d (model %d).", name, p.ID, p.Model)
	}
	g.record(name, p.Fields)

	// Dotted names push the one-liner past gofmt's width limit for some
	// packets, so the body always gets its own line.
	g.p("func (%s) PacketName() string {", name)
	g.p("return %q", p.Name)
	g.p("}")
	g.p("func (%s) PacketID() int32 { return %d }", name, p.ID)
	g.p("func (%s) ModelID() int32 { return %d }", name, p.Model)
	g.p("")
}

func (g *generator) register(s *Schema) {
	g.p("// Register adds the codecs for every enum, struct and named packet to r.")
	g.p("func Register(r *packet.Registry) {")
	g.p("c := r.Codecs()")
	g.p("")
	for _, e := range s.Enums {
		g.p("codec.Register[%[1]s](c, codec.EnumCodec[%[1]s]{Names: %[2]sNames})", e.Name, lowerFirst(e.Name))
	}
	for _, st := range s.Structs {
		g.p("codec.Register[%[1]s](c, %[1]sCodec{})", st.Name)
	}
	for _, expr := range s.Composites() {
		if strings.HasPrefix(expr, "*") {
			g.p("codec.Register[%s](c, codec.OptionCodec[%s]{})", expr, expr[1:])
		} else {
			g.p("codec.Register[%s](c, codec.VectorCodec[%s]{})", expr, expr[2:])
		}
	}
	g.p("")
	for _, p := range s.Packets {
		if p.Unnamed {
			continue
		}
		g.p("packet.MustRegister[%[1]s](r, %[1]sCodec{})", TypeName(p.Name))
	}
	g.p("}")
}
