// Package shared provides small helpers for handling sensitive byte buffers.
package shared

// WipeByteArray overwrites b with zeros so plaintext passwords do not linger
// in memory after use. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
