// Command protogen compiles the YAML packet definitions into Go records,
// codecs and a Register function for the packet registry.
//
// Usage:
//
//	protogen -in definitions/packets.yaml -out packets/packets_gen.go -package packets
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("protogen: ")

	in := flag.String("in", "packets.yaml", "schema file")
	out := flag.String("out", "packets_gen.go", "output file")
	pkg := flag.String("package", "packets", "package name of the generated file")
	flag.Parse()

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal(err)
	}

	schema, err := ParseSchema(data)
	if err != nil {
		log.Fatalf("%s: %v", *in, err)
	}

	src, err := Generate(schema, *pkg, filepath.Base(*in))
	if err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(*out, src, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %d enums, %d structs, %d packets to %s",
		len(schema.Enums), len(schema.Structs), len(schema.Packets), *out)
}
