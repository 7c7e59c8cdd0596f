package dump

import (
	"encoding/binary"
	"math/bits"

	"github.com/delaneyj/toolbelt/bytebufferpool"
)

const (
	prime32x1 uint32 = 0x9E3779B1
	prime32x2 uint32 = 0x85EBCA77
	prime32x3 uint32 = 0xC2B2AE3D
	prime32x4 uint32 = 0x27D4EB2F
	prime32x5 uint32 = 0x165667B1
)

// checksumWords hashes the little-endian encoding of words with xxh32.
func checksumWords(words []uint64) uint32 {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	var tmp [8]byte
	for _, w := range words {
		binary.LittleEndian.PutUint64(tmp[:], w)
		buf.Write(tmp[:])
	}
	return xxh32(buf.Bytes(), 0)
}

func xxh32Round(acc, lane uint32) uint32 {
	acc += lane * prime32x2
	return bits.RotateLeft32(acc, 13) * prime32x1
}

func xxh32Avalanche(h uint32) uint32 {
	h ^= h >> 15
	h *= prime32x2
	h ^= h >> 13
	h *= prime32x3
	h ^= h >> 16
	return h
}

// xxh32 is the 32-bit xxHash of data.
func xxh32(data []byte, seed uint32) uint32 {
	n := len(data)
	var h uint32
	if n >= 16 {
		acc := [4]uint32{
			seed + prime32x1 + prime32x2,
			seed + prime32x2,
			seed,
			seed - prime32x1,
		}
		for len(data) >= 16 {
			for i := range acc {
				acc[i] = xxh32Round(acc[i], binary.LittleEndian.Uint32(data[4*i:]))
			}
			data = data[16:]
		}
		h = bits.RotateLeft32(acc[0], 1) + bits.RotateLeft32(acc[1], 7) +
			bits.RotateLeft32(acc[2], 12) + bits.RotateLeft32(acc[3], 18)
	} else {
		h = seed + prime32x5
	}
	h += uint32(n)

	for ; len(data) >= 4; data = data[4:] {
		h += binary.LittleEndian.Uint32(data) * prime32x3
		h = bits.RotateLeft32(h, 17) * prime32x4
	}
	for _, b := range data {
		h += uint32(b) * prime32x5
		h = bits.RotateLeft32(h, 11) * prime32x1
	}
	return xxh32Avalanche(h)
}
