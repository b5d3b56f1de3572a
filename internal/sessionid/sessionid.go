// Package sessionid generates sortable session identifiers: a UUIDv7
// encoded as 26 characters of Crockford base32. The timestamp prefix keeps
// identifiers ordered by creation time, which makes server logs and stored
// snapshots easy to correlate.
package sessionid

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Crockford's base32 alphabet: lowercase, no i, l, o or u.
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random tail of an identifier. Tests inject a
// deterministic source; production code leaves it nil and gets crypto/rand.
type RandSource interface {
	Intn(n int) int
}

// Generator produces session identifiers with configurable randomness.
type Generator struct {
	randSource RandSource
}

// NewGenerator creates a generator. A nil RandSource selects crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource}
}

// New returns a fresh session identifier.
func New() string {
	return NewGenerator(nil).Generate()
}

// Generate returns a fresh session identifier from the generator's source.
func (g *Generator) Generate() string {
	return encodeBase32(g.uuidv7())
}

// uuidv7 builds a 128-bit UUIDv7: 48 bits of Unix-millisecond timestamp,
// then version and variant bits over random data.
func (g *Generator) uuidv7() [16]byte {
	var uuid [16]byte

	now := time.Now().UnixMilli()
	uuid[0] = byte(now >> 40)
	uuid[1] = byte(now >> 32)
	uuid[2] = byte(now >> 24)
	uuid[3] = byte(now >> 16)
	uuid[4] = byte(now >> 8)
	uuid[5] = byte(now)

	if g.randSource != nil {
		for i := 6; i < 16; i++ {
			uuid[i] = byte(g.randSource.Intn(256))
		}
	} else {
		if _, err := rand.Read(uuid[6:]); err != nil {
			panic("sessionid: " + err.Error())
		}
	}

	// Version 7, variant 10.
	uuid[6] = (uuid[6] & 0x0f) | 0x70
	uuid[8] = (uuid[8] & 0x3f) | 0x80

	return uuid
}

// encodeBase32 packs 128 bits into 26 base32 characters, five bits per
// character, most significant bits first.
func encodeBase32(data [16]byte) string {
	result := make([]byte, 26)

	for i := 0; i < 26; i++ {
		bitOffset := i * 5
		byteIndex := bitOffset / 8
		bitIndex := bitOffset % 8

		var value uint8
		if byteIndex < 16 {
			if bitIndex <= 3 {
				value = (data[byteIndex] >> (3 - bitIndex)) & 0x1f
			} else {
				value = (data[byteIndex] << (bitIndex - 3)) & 0x1f
				if byteIndex+1 < 16 {
					value |= data[byteIndex+1] >> (11 - bitIndex)
				}
			}
		}
		result[i] = alphabet[value]
	}

	return string(result)
}

// Validate checks that id is a well-formed session identifier.
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("session id must be exactly 26 characters, got %d", len(id))
	}

	// 26 base32 characters hold 130 bits; the first character may only
	// carry the top 3 bits of a 128-bit value.
	if id[0] > '7' {
		return fmt.Errorf("session id first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		valid := false
		for _, validChar := range alphabet {
			if char == validChar {
				valid = true
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
