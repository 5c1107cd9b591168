//go:build !linux

package framebuffer

// Open always fails with [ErrNotSupported] outside Linux.
func Open(name string, _ *Config) (*Framebuffer, error) {
	return nil, &Error{Op: "open", Path: name, Kind: ErrNotSupported}
}
