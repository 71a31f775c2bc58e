// Package hash provides the deterministic random streams used by the search.
//
// Every worker draws from its own SHAKE-128 stream keyed by the run seed and
// the worker index, so runs are reproducible and no state is shared between
// goroutines.
package hash

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

const (
	// KeySize is the length of an expanded run seed.
	KeySize = 32

	// rate is the SHAKE-128 block size; output is squeezed a block at a time.
	rate = 168
)

// Stream is SHAKE-128(key || nonce) read one byte at a time.
type Stream struct {
	xof   sha3.ShakeHash
	block [rate]byte
	next  int
}

// NewStream returns the stream for key and nonce.
func NewStream(key []byte, nonce uint16) *Stream {
	s := &Stream{xof: sha3.NewShake128()}
	s.Rekey(key, nonce)
	return s
}

// Rekey restarts s as the stream for key and nonce.
func (s *Stream) Rekey(key []byte, nonce uint16) {
	var n [2]byte
	binary.LittleEndian.PutUint16(n[:], nonce)
	s.xof.Reset()
	s.xof.Write(key)
	s.xof.Write(n[:])
	s.next = rate
}

// Byte returns the next output byte.
func (s *Stream) Byte() byte {
	if s.next == rate {
		s.xof.Read(s.block[:])
		s.next = 0
	}
	b := s.block[s.next]
	s.next++
	return b
}

// Read fills p from the stream. It never fails.
func (s *Stream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = s.Byte()
	}
	return len(p), nil
}

// ExpandSeed derives KeySize bytes of key material from a numeric run seed
// with SHAKE-256.
func ExpandSeed(seed uint64) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], seed)
	key := make([]byte, KeySize)
	sha3.ShakeSum256(key, b[:])
	return key
}

// WorkerStream returns the stream owned by the given worker of a run.
func WorkerStream(seed uint64, worker int) *Stream {
	return NewStream(ExpandSeed(seed), uint16(worker))
}
