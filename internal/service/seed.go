package service

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// MaxSeed bounds pairing seeds to integers a JSON double represents exactly, so a seed
// read back from any client reproduces the round.
const MaxSeed = 1<<53 - 1

// NewSeed draws a RANDOM pairing seed from crypto/rand. The seed is stored with the
// round so the pairing can be reproduced.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:]) & MaxSeed), nil
}
