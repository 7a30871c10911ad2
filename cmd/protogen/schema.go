package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Schema is the parsed packet definition file. Mapping order from the YAML
// source is kept for enums, structs and fields; packets are sorted by id.
type Schema struct {
	Enums   []Enum
	Structs []Struct
	Packets []Packet
}

type Enum struct {
	Name     string
	Variants []Variant
}

type Variant struct {
	Name  string
	Value int32
}

type Struct struct {
	Name   string
	Fields []Field
}

type Field struct {
	Name string
	Type string
}

type Packet struct {
	ID     int32
	Name   string
	Model  int32
	Fields []Field
	// Unnamed packets get a placeholder name and stay out of Register.
	Unnamed bool
}

var primitives = map[string]bool{
	"int8":    true,
	"uint8":   true,
	"int16":   true,
	"int32":   true,
	"int64":   true,
	"float32": true,
	"float64": true,
	"bool":    true,
	"string":  true,
}

type document struct {
	Enums   yaml.Node `yaml:"enums"`
	Structs yaml.Node `yaml:"structs"`
	Packets yaml.Node `yaml:"packets"`
}

type packetDocument struct {
	Name   *string   `yaml:"name"`
	Model  int32     `yaml:"model"`
	Fields yaml.Node `yaml:"fields"`
}

// ParseSchema decodes and validates a definition file.
func ParseSchema(data []byte) (*Schema, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}

	s := &Schema{}

	err := eachPair(&doc.Enums, func(key string, value *yaml.Node) error {
		e := Enum{Name: key}
		err := eachPair(value, func(variant string, v *yaml.Node) error {
			var n int32
			if err := v.Decode(&n); err != nil {
				return fmt.Errorf("enum %s variant %s: %w", key, variant, err)
			}
			e.Variants = append(e.Variants, Variant{Name: variant, Value: n})
			return nil
		})
		s.Enums = append(s.Enums, e)
		return err
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&doc.Structs, func(key string, value *yaml.Node) error {
		fields, err := parseFields(value)
		if err != nil {
			return fmt.Errorf("struct %s: %w", key, err)
		}
		s.Structs = append(s.Structs, Struct{Name: key, Fields: fields})
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = eachPair(&doc.Packets, func(key string, value *yaml.Node) error {
		id, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return fmt.Errorf("packet id %q: %w", key, err)
		}

		var pd packetDocument
		if err := value.Decode(&pd); err != nil {
			return fmt.Errorf("packet %d: %w", id, err)
		}
		fields, err := parseFields(&pd.Fields)
		if err != nil {
			return fmt.Errorf("packet %d: %w", id, err)
		}

		p := Packet{ID: int32(id), Model: pd.Model, Fields: fields}
		if pd.Name == nil || *pd.Name == "" {
			p.Name = placeholderName(p.ID)
			p.Unnamed = true
		} else {
			p.Name = *pd.Name
		}
		s.Packets = append(s.Packets, p)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(s.Packets, func(i, j int) bool { return s.Packets[i].ID < s.Packets[j].ID })

	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func placeholderName(id int32) string {
	return "unknown.Packet" + strings.ReplaceAll(strconv.Itoa(int(id)), "-", "Neg")
}

func parseFields(node *yaml.Node) ([]Field, error) {
	var fields []Field
	err := eachPair(node, func(key string, value *yaml.Node) error {
		if value.Kind != yaml.ScalarNode {
			return fmt.Errorf("field %s: type must be a string", key)
		}
		fields = append(fields, Field{Name: key, Type: strings.TrimSpace(value.Value)})
		return nil
	})
	return fields, err
}

// eachPair walks a mapping node in source order. A missing or null node is
// treated as an empty mapping.
func eachPair(node *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null") {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if err := fn(node.Content[i].Value, node.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validate() error {
	named := make(map[string]string)
	declare := func(name, what string) error {
		if prev, ok := named[name]; ok {
			return fmt.Errorf("%s %s collides with %s", what, name, prev)
		}
		named[name] = what
		return nil
	}

	for _, e := range s.Enums {
		if err := declare(e.Name, "enum"); err != nil {
			return err
		}
	}
	for _, st := range s.Structs {
		if err := declare(st.Name, "struct"); err != nil {
			return err
		}
	}
	for _, p := range s.Packets {
		if err := declare(TypeName(p.Name), "packet "+strconv.Itoa(int(p.ID))); err != nil {
			return err
		}
	}

	check := func(owner string, fields []Field) error {
		for _, f := range fields {
			if err := s.checkType(f.Type); err != nil {
				return fmt.Errorf("%s field %s: %w", owner, f.Name, err)
			}
		}
		return nil
	}
	for _, st := range s.Structs {
		if err := check(st.Name, st.Fields); err != nil {
			return err
		}
	}
	for _, p := range s.Packets {
		if err := check(p.Name, p.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) checkType(expr string) error {
	switch {
	case strings.HasPrefix(expr, "*"):
		return s.checkType(expr[1:])
	case strings.HasPrefix(expr, "[]"):
		return s.checkType(expr[2:])
	case primitives[expr]:
		return nil
	}
	for _, e := range s.Enums {
		if e.Name == expr {
			return nil
		}
	}
	for _, st := range s.Structs {
		if st.Name == expr {
			return nil
		}
	}
	return fmt.Errorf("unknown type %q", expr)
}

// Composites returns every pointer and slice type expression reachable from a
// field, except the primitive vectors the codec package registers itself.
func (s *Schema) Composites() []string {
	seen := make(map[string]bool)
	var walk func(expr string)
	walk = func(expr string) {
		var inner string
		switch {
		case strings.HasPrefix(expr, "*"):
			inner = expr[1:]
		case strings.HasPrefix(expr, "[]"):
			inner = expr[2:]
			if primitives[inner] {
				return
			}
		default:
			return
		}
		seen[expr] = true
		walk(inner)
	}

	for _, st := range s.Structs {
		for _, f := range st.Fields {
			walk(f.Type)
		}
	}
	for _, p := range s.Packets {
		for _, f := range p.Fields {
			walk(f.Type)
		}
	}

	out := make([]string, 0, len(seen))
	for expr := range seen {
		out = append(out, expr)
	}
	sort.Strings(out)
	return out
}

var initialisms = map[string]bool{
	"c2s": true,
	"s2c": true,
	"id":  true,
	"ip":  true,
	"uid": true,
	"url": true,
}

func exportWord(w string) string {
	if w == "" {
		return ""
	}
	if initialisms[strings.ToLower(w)] {
		return strings.ToUpper(w)
	}
	return strings.ToUpper(w[:1]) + w[1:]
}

// TypeName flattens a dotted packet path into a Go type name:
// "s2c.session.InitializeEncryption" becomes "S2CSessionInitializeEncryption".
func TypeName(path string) string {
	var b strings.Builder
	for _, part := range strings.Split(path, ".") {
		b.WriteString(exportWord(part))
	}
	return b.String()
}

// FieldName converts a snake_case schema field to an exported Go name.
func FieldName(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		b.WriteString(exportWord(part))
	}
	return b.String()
}
