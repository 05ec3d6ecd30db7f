// Package principal implements principal identifiers: opaque byte strings
// that name an authenticated actor, and their canonical textual form.
//
// The textual form is the lowercase base32 encoding (no padding) of
// crc32(bytes) ‖ bytes, split into dash-separated groups of five characters.
package principal

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base32"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"strings"
)

const (
	selfAuthenticatingSuffix byte = 0x02
	anonymousSuffix          byte = 0x04

	groupSize = 5
	maxLength = 29
)

var (
	ErrInvalidText     = errors.New("principal: invalid text")
	ErrInvalidChecksum = errors.New("principal: checksum mismatch")
	ErrTooLong         = errors.New("principal: too long")
)

var encoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Principal is comparable and safe to use as a map key.
type Principal struct {
	raw string
}

// FromBytes wraps raw principal bytes.
func FromBytes(b []byte) (Principal, error) {
	if len(b) > maxLength {
		return Principal{}, ErrTooLong
	}
	return Principal{raw: string(b)}, nil
}

// Anonymous returns the principal used by unauthenticated callers.
func Anonymous() Principal {
	return Principal{raw: string([]byte{anonymousSuffix})}
}

// SelfAuthenticating derives the principal of a DER-encoded public key.
func SelfAuthenticating(der []byte) Principal {
	sum := sha256.Sum224(der)
	b := make([]byte, 0, len(sum)+1)
	b = append(b, sum[:]...)
	b = append(b, selfAuthenticatingSuffix)
	return Principal{raw: string(b)}
}

// FromPublicKey derives the self-authenticating principal of an ed25519 key.
func FromPublicKey(pub ed25519.PublicKey) (Principal, error) {
	der, err := x509.MarshalPKIXPublicKey(pub)
	if err != nil {
		return Principal{}, fmt.Errorf("marshal public key: %w", err)
	}
	return SelfAuthenticating(der), nil
}

// Bytes returns a copy of the raw principal bytes.
func (p Principal) Bytes() []byte {
	return []byte(p.raw)
}

// IsAnonymous reports whether p is the anonymous principal.
func (p Principal) IsAnonymous() bool {
	return p.raw == string([]byte{anonymousSuffix})
}

// String returns the canonical textual form.
func (p Principal) String() string {
	buf := make([]byte, 4, 4+len(p.raw))
	binary.BigEndian.PutUint32(buf, crc32.ChecksumIEEE([]byte(p.raw)))
	buf = append(buf, p.raw...)

	enc := strings.ToLower(encoding.EncodeToString(buf))

	var sb strings.Builder
	for i := 0; i < len(enc); i += groupSize {
		if i > 0 {
			sb.WriteByte('-')
		}
		end := min(i+groupSize, len(enc))
		sb.WriteString(enc[i:end])
	}
	return sb.String()
}

// Parse decodes the textual form and checks both the checksum and that the
// input is in canonical grouping.
func Parse(text string) (Principal, error) {
	compact := strings.ToUpper(strings.ReplaceAll(text, "-", ""))
	buf, err := encoding.DecodeString(compact)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	if len(buf) < 4 {
		return Principal{}, ErrInvalidText
	}

	raw := buf[4:]
	if binary.BigEndian.Uint32(buf[:4]) != crc32.ChecksumIEEE(raw) {
		return Principal{}, ErrInvalidChecksum
	}

	p, err := FromBytes(raw)
	if err != nil {
		return Principal{}, err
	}
	if p.String() != strings.ToLower(text) {
		return Principal{}, ErrInvalidText
	}
	return p, nil
}
