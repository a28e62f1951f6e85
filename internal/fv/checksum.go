package fv

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
)

// DefaultChecksumAlgorithm is used wherever a caller does not pick one.
const DefaultChecksumAlgorithm = "sha256"

// checksumChunkSize bounds each read so memory use is independent of
// payload size.
const checksumChunkSize = 8192

// Checksum computes an algorithm-tagged content digest over r, formatted
// "<algorithm>:<lowercase-hex-digest>". It is a pure function of the
// content and algorithm.
func Checksum(r io.Reader, algorithm string) (string, error) {
	if algorithm == "" {
		algorithm = DefaultChecksumAlgorithm
	}

	var h hash.Hash
	switch algorithm {
	case "sha256":
		h = sha256.New()
	case "sha512":
		h = sha512.New()
	default:
		return "", fmt.Errorf("unsupported checksum algorithm: %s", algorithm)
	}

	if _, err := io.CopyBuffer(h, r, make([]byte, checksumChunkSize)); err != nil {
		return "", fmt.Errorf("hashing content: %w", err)
	}

	return algorithm + ":" + hex.EncodeToString(h.Sum(nil)), nil
}
