// Package cryptox implements the credential codec: salted argon2 password
// hashes encoded as PHC strings, e.g.
//
//	$argon2id$v=19$m=19456,t=2,p=1$<salt>$<hash>
//
// Salt and hash are unpadded standard base64. Every hash carries its own
// parameters, so stored hashes stay verifiable if the defaults change.
package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rush/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	algorithmID = "argon2id"
	algorithmI  = "argon2i"

	defaultMemory  uint32 = 19 * 1024 // KiB
	defaultTime    uint32 = 2
	defaultThreads uint8  = 1
	saltLength            = 16
	keyLength      uint32 = 32
)

// Params are the argon2 cost parameters embedded in a hash.
type Params struct {
	Memory  uint32
	Time    uint32
	Threads uint8
}

// DefaultParams returns the parameters used by HashPassword.
func DefaultParams() Params {
	return Params{Memory: defaultMemory, Time: defaultTime, Threads: defaultThreads}
}

// randRead is a seam for crypto/rand.Read.
var randRead = rand.Read

// HashPassword returns an argon2id PHC hash of password under a fresh random
// salt. Two calls with the same password yield different strings.
func HashPassword(password []byte) (string, error) {
	return HashPasswordWithParams(password, DefaultParams())
}

// HashPasswordWithParams is HashPassword with explicit cost parameters.
func HashPasswordWithParams(password []byte, p Params) (string, error) {
	if p.Memory == 0 || p.Time == 0 || p.Threads == 0 {
		return "", fmt.Errorf("%w: invalid parameters", common.ErrHashing)
	}

	salt := make([]byte, saltLength)
	if _, err := randRead(salt); err != nil {
		return "", fmt.Errorf("%w: salt: %v", common.ErrHashing, err)
	}

	key := argon2.IDKey(password, salt, p.Time, p.Memory, p.Threads, keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID, argon2.Version, p.Memory, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword recomputes the hash of password with the salt and
// parameters embedded in encoded and compares in constant time.
// A mismatch is (false, nil); only a malformed encoded hash is an error.
func VerifyPassword(encoded string, password []byte) (bool, error) {
	h, err := decodeHash(encoded)
	if err != nil {
		return false, err
	}

	var candidate []byte
	switch h.algorithm {
	case algorithmID:
		candidate = argon2.IDKey(password, h.salt, h.params.Time, h.params.Memory, h.params.Threads, uint32(len(h.key)))
	default:
		candidate = argon2.Key(password, h.salt, h.params.Time, h.params.Memory, h.params.Threads, uint32(len(h.key)))
	}

	return subtle.ConstantTimeCompare(h.key, candidate) == 1, nil
}

type decodedHash struct {
	algorithm string
	params    Params
	salt      []byte
	key       []byte
}

func decodeHash(encoded string) (*decodedHash, error) {
	// "", algorithm, version, params, salt, key
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, fmt.Errorf("%w: malformed hash", common.ErrHashing)
	}

	h := &decodedHash{algorithm: parts[1]}
	if h.algorithm != algorithmID && h.algorithm != algorithmI {
		return nil, fmt.Errorf("%w: unsupported algorithm %q", common.ErrHashing, h.algorithm)
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, fmt.Errorf("%w: version: %v", common.ErrHashing, err)
	}
	if version != argon2.Version {
		return nil, fmt.Errorf("%w: unsupported version %d", common.ErrHashing, version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &h.params.Memory, &h.params.Time, &h.params.Threads); err != nil {
		return nil, fmt.Errorf("%w: params: %v", common.ErrHashing, err)
	}
	if h.params.Memory == 0 || h.params.Time == 0 || h.params.Threads == 0 {
		return nil, fmt.Errorf("%w: invalid parameters", common.ErrHashing)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(h.salt) == 0 {
		return nil, fmt.Errorf("%w: salt encoding", common.ErrHashing)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(h.key) == 0 {
		return nil, fmt.Errorf("%w: hash encoding", common.ErrHashing)
	}

	return h, nil
}
