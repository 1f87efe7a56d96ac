package object

import (
	"io"

	"github.com/Nivl/git-go/ginternals"
)

// Blob represents a blob object: an opaque byte sequence with no
// structure of its own (spec.md §3's "Blob: opaque byte sequence").
type Blob struct {
	rawObject *Object
}

// NewBlob returns a new Blob object from a git Object
func NewBlob(o *Object) *Blob {
	return &Blob{
		rawObject: o,
	}
}

// IsPersisted reports whether the blob has a non-null ID. Object IDs are
// computed when the object is built, so this does not tell whether the
// blob was written to the odb.
func (b *Blob) IsPersisted() bool {
	return b.rawObject.id != ginternals.NullOid
}

// ID returns the blob's ID
func (b *Blob) ID() ginternals.Oid {
	return b.rawObject.id
}

// Bytes returns the blob's contents
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// BytesCopy returns a copy of blob's contents
func (b *Blob) BytesCopy() []byte {
	out := make([]byte, len(b.rawObject.content))
	copy(out, b.rawObject.content)
	return out
}

// Size returns the size of the blob
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// WriteTo streams the blob's content to w, letting checkout write a
// blob straight to its destination file without an intermediate copy.
func (b *Blob) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.rawObject.content)
	return int64(n), err
}

// ToObject returns the Blob's underlying Object
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
