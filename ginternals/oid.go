package ginternals

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
)

const (
	// OidSize is the length of an Oid, in bytes
	OidSize = 20
)

var (
	// NullOid is the value of an empty Oid, or one that's all 0s
	NullOid = Oid{}

	// ErrInvalidOid is returned when a given value isn't a valid Oid
	ErrInvalidOid = errors.New("invalid Oid")
)

// Oid represents the id of an object, which is the SHA1 sum of its
// framed content (see object.New)
type Oid [OidSize]byte

// Bytes returns a byte slice of the Oid
func (o Oid) Bytes() []byte {
	return o[:]
}

// String returns the lower-case hex representation of the Oid
func (o Oid) String() string {
	return hex.EncodeToString(o[:])
}

// IsZero returns whether the oid has the zero value (NullOid)
func (o Oid) IsZero() bool {
	return o == NullOid
}

// NewOidFromContent returns the Oid of the given content.
// The oid is the SHA1 sum of the content.
func NewOidFromContent(data []byte) Oid {
	return sha1.Sum(data)
}

// NewOidFromBytes returns an Oid from the provided raw (non-hex-encoded)
// 20-byte oid
func NewOidFromBytes(id []byte) (Oid, error) {
	if len(id) < OidSize {
		return NullOid, ErrInvalidOid
	}

	var oid Oid
	copy(oid[:], id)
	return oid, nil
}

// NewOidFromHex is an alias of NewOidFromBytes kept for the packfile
// and tree codecs, which read a raw 20-byte oid straight from their
// binary framing (no hex-decoding involved despite the name).
func NewOidFromHex(id []byte) (Oid, error) {
	return NewOidFromBytes(id)
}

// NewOidFromChars creates an Oid from the given ASCII-hex char bytes.
// For the SHA {'9', 'b', '9', '1', 'd', 'a', ...} the oid will be
// {0x9b, 0x91, 0xda, ...}
func NewOidFromChars(id []byte) (Oid, error) {
	return NewOidFromStr(string(id))
}

// NewOidFromStr creates an Oid from the given hex-encoded string.
// For the SHA "9b91da06e69613397b38e0808e0ba5ee6983251b" the oid will be
// {0x9b, 0x91, 0xda, ...}
func NewOidFromStr(id string) (Oid, error) {
	b, err := hex.DecodeString(id)
	if err != nil {
		return NullOid, ErrInvalidOid
	}
	if len(b) != OidSize {
		return NullOid, ErrInvalidOid
	}

	var oid Oid
	copy(oid[:], b)
	return oid, nil
}
