// Package packets holds the protocol's payload records, compiled from
// ../definitions/packets.yaml. Type names flatten the dotted packet path,
// so s2c.session.InitializeEncryption is S2CSessionInitializeEncryption.
package packets

//go:generate go run ../../../cmd/protogen -in ../definitions/packets.yaml -out packets_gen.go -package packets
