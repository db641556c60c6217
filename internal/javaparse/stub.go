//go:build !cgo

package javaparse

const available = false

// parse is the no-cgo stub. Every caller already tolerates per-file parse
// failure, so an unavailable parser degrades to "nothing parsed".
func parse(path string, src []byte) (*Unit, error) {
	return nil, ErrUnavailable
}
