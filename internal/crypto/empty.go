package crypto

// EmptyContext leaves payloads untouched. Connections start with it until the
// key exchange completes.
type EmptyContext struct{}

func NewEmptyContext() *EmptyContext {
	return &EmptyContext{}
}

func (*EmptyContext) Name() string { return "empty" }

func (*EmptyContext) Encrypt([]byte) error { return nil }

func (*EmptyContext) Decrypt([]byte) error { return nil }
