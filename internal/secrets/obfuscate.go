package secrets

import (
	"fmt"

	kerrors "github.com/PolarWolf314/keyward/internal/errors"
)

// obfuscationMarker is XORed into every cached key byte and repeated twice
// as a trailer. It is a public constant: obfuscation keeps the cached key
// from sitting in memory as a recognizable plaintext buffer, nothing more.
const obfuscationMarker byte = 0xDE

// Obfuscate returns input XORed with the marker followed by a two byte
// marker trailer. It does not modify input.
func Obfuscate(input []byte) []byte {
	blob := make([]byte, len(input)+2)
	for i, b := range input {
		blob[i] = b ^ obfuscationMarker
	}
	blob[len(input)] = obfuscationMarker
	blob[len(input)+1] = obfuscationMarker
	return blob
}

// Deobfuscate reverses Obfuscate. A blob without the marker trailer fails
// with ErrInvalidObfuscatedState.
func Deobfuscate(blob []byte) ([]byte, error) {
	n := len(blob)
	if n < 2 || blob[n-1] != obfuscationMarker || blob[n-2] != obfuscationMarker {
		return nil, fmt.Errorf("%w: trailer check failed on %d byte blob", kerrors.ErrInvalidObfuscatedState, n)
	}

	out := make([]byte, n-2)
	for i := range out {
		out[i] = blob[i] ^ obfuscationMarker
	}
	return out, nil
}
