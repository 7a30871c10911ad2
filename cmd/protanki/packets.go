package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/Assasans/protanki-server/internal/cli"
	"github.com/Assasans/protanki-server/internal/packet"
	"github.com/Assasans/protanki-server/internal/packet/packets"
)

func newRegistry() *packet.Registry {
	registry := packet.NewRegistry()
	packets.Register(registry)
	return registry
}

func packetsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "packets",
		Short: "List the registered packets",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries := newRegistry().Entries()
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			cli.WritePacketTable(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
