// Package index implements the binary git index (v2) file format: the
// staging area git's plumbing commands read and write between the
// working tree and the object database.
//
// Grounded byte-exactly on the doc comment the teacher carried on its
// own (never implemented) ginternals.Index stub, and on
// original_source's git_index_entry.rs (index_read/index_write), the
// reference implementation this repository's on-disk format was
// distilled from.
// https://git-scm.com/docs/index-format
package index

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/Nivl/git-go/ginternals"
	"github.com/spf13/afero"
)

// Mode's object-type nibble, the top 4 bits of an entry's 16-bit mode.
const (
	ModeTypeFile    uint16 = 0b1000
	ModeTypeSymlink uint16 = 0b1010
	ModeTypeGitlink uint16 = 0b1110
)

// version is the only index format version this package reads or
// writes. Versions 3 and 4 add extended flags and name compression
// this module has no use for.
const version = 2

const (
	headerSize = 12
	entrySize  = 62 // fixed-size portion of an entry, before path+padding
	magic      = "DIRC"
)

// ErrUnsupportedVersion is returned when reading an index file whose
// version isn't 2.
var ErrUnsupportedVersion = errors.New("unsupported index version")

// ErrCorrupt is returned when an index file's content doesn't match
// the expected binary layout (bad magic, truncated entry, missing NUL
// terminator, SHA1 footer mismatch).
var ErrCorrupt = errors.New("corrupt index file")

// Entry represents a single staged file (or, with sparse checkout,
// directory) tracked by the index.
type Entry struct {
	CTimeSec, CTimeNano uint32
	MTimeSec, MTimeNano uint32
	Dev, Ino            uint32
	// ModeType is the object-type nibble: ModeTypeFile, ModeTypeSymlink,
	// or ModeTypeGitlink.
	ModeType uint16
	// ModePerms is the 9-bit UNIX permission bits; 0 for symlinks and
	// gitlinks.
	ModePerms   uint16
	UID, GID    uint32
	Size        uint32
	ID          ginternals.Oid
	AssumeValid bool
	// Stage is used during a merge to track the 3 sides of a conflict
	// (0 means "no conflict").
	Stage uint16
	Path  string
}

// Index is the parsed content of the binary index file.
type Index struct {
	Entries []Entry
}

// New returns an empty index, matching a freshly-initialized repository
// that has never staged anything.
func New() *Index {
	return &Index{}
}

// Decode reads a v2 index file from r.
func Decode(r io.Reader) (*Index, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("could not read index: %w", err)
	}
	if len(raw) == 0 {
		return New(), nil
	}
	if len(raw) < headerSize {
		return nil, fmt.Errorf("header truncated: %w", ErrCorrupt)
	}
	if string(raw[0:4]) != magic {
		return nil, fmt.Errorf("bad signature %q: %w", raw[0:4], ErrCorrupt)
	}
	ver := binary.BigEndian.Uint32(raw[4:8])
	if ver != version {
		return nil, fmt.Errorf("version %d: %w", ver, ErrUnsupportedVersion)
	}
	count := binary.BigEndian.Uint32(raw[8:12])

	idx := New()
	offset := headerSize
	for i := uint32(0); i < count; i++ {
		e, consumed, err := decodeEntry(raw[offset:])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		idx.Entries = append(idx.Entries, e)
		offset += consumed
	}

	if len(raw)-offset < ginternals.OidSize {
		return nil, fmt.Errorf("checksum truncated: %w", ErrCorrupt)
	}
	body := raw[:len(raw)-ginternals.OidSize]
	if sum := ginternals.NewOidFromContent(body); !bytes.Equal(sum.Bytes(), raw[len(body):]) {
		return nil, fmt.Errorf("checksum mismatch: %w", ErrCorrupt)
	}
	return idx, nil
}

func decodeEntry(b []byte) (Entry, int, error) {
	if len(b) < entrySize {
		return Entry{}, 0, fmt.Errorf("entry truncated: %w", ErrCorrupt)
	}
	e := Entry{
		CTimeSec:  binary.BigEndian.Uint32(b[0:4]),
		CTimeNano: binary.BigEndian.Uint32(b[4:8]),
		MTimeSec:  binary.BigEndian.Uint32(b[8:12]),
		MTimeNano: binary.BigEndian.Uint32(b[12:16]),
		Dev:       binary.BigEndian.Uint32(b[16:20]),
		Ino:       binary.BigEndian.Uint32(b[20:24]),
	}
	mode := binary.BigEndian.Uint16(b[24:26])
	e.ModeType = mode >> 12
	e.ModePerms = mode & 0b0000000111111111
	e.UID = binary.BigEndian.Uint32(b[26:30])
	e.GID = binary.BigEndian.Uint32(b[30:34])
	e.Size = binary.BigEndian.Uint32(b[34:38])

	id, err := ginternals.NewOidFromBytes(b[38:58])
	if err != nil {
		return Entry{}, 0, fmt.Errorf("invalid sha: %w", err)
	}
	e.ID = id

	flags := binary.BigEndian.Uint16(b[58:60])
	e.AssumeValid = flags&0b1000000000000000 != 0
	// extended flag (bit 14) must be 0 in v2; we don't validate it since
	// a stray bit there doesn't change how we read the rest of the entry.
	e.Stage = (flags & 0b0011000000000000) >> 12
	nameLen := int(flags & 0b0000111111111111)

	offset := entrySize
	var name []byte
	if nameLen < 0xFFF {
		if offset+nameLen >= len(b) || b[offset+nameLen] != 0 {
			return Entry{}, 0, fmt.Errorf("name not NUL-terminated: %w", ErrCorrupt)
		}
		name = b[offset : offset+nameLen]
		offset += nameLen + 1
	} else {
		nul := bytes.IndexByte(b[offset:], 0)
		if nul == -1 {
			return Entry{}, 0, fmt.Errorf("long name not NUL-terminated: %w", ErrCorrupt)
		}
		name = b[offset : offset+nul]
		offset += nul + 1
	}
	e.Path = string(name)

	// Pad to the next 8-byte boundary, counted from the start of the
	// entry (matching index_read's "idx = 8 * ((idx + 7) / 8)").
	padded := 8 * ((offset + 7) / 8)
	return e, padded, nil
}

// Encode writes idx as a v2 index file to w, including the trailing
// SHA-1 checksum of everything written before it.
func Encode(w io.Writer, idx *Index) error {
	buf := new(bytes.Buffer)
	buf.WriteString(magic)
	writeU32(buf, version)
	writeU32(buf, uint32(len(idx.Entries)))

	entries := make([]Entry, len(idx.Entries))
	copy(entries, idx.Entries)
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Path != entries[j].Path {
			return entries[i].Path < entries[j].Path
		}
		return entries[i].Stage < entries[j].Stage
	})

	for _, e := range entries {
		encodeEntry(buf, e)
	}

	sum := ginternals.NewOidFromContent(buf.Bytes())
	buf.Write(sum.Bytes())

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("could not write index: %w", err)
	}
	return nil
}

func encodeEntry(buf *bytes.Buffer, e Entry) {
	start := buf.Len()
	writeU32(buf, e.CTimeSec)
	writeU32(buf, e.CTimeNano)
	writeU32(buf, e.MTimeSec)
	writeU32(buf, e.MTimeNano)
	writeU32(buf, e.Dev)
	writeU32(buf, e.Ino)

	mode := (e.ModeType << 12) | e.ModePerms
	writeU16(buf, mode)

	writeU32(buf, e.UID)
	writeU32(buf, e.GID)
	writeU32(buf, e.Size)
	buf.Write(e.ID.Bytes())

	nameBytes := []byte(e.Path)
	nameLen := len(nameBytes)
	flagLen := nameLen
	if flagLen >= 0xFFF {
		flagLen = 0xFFF
	}
	var flags uint16
	if e.AssumeValid {
		flags |= 0b1000000000000000
	}
	flags |= (e.Stage << 12) & 0b0011000000000000
	flags |= uint16(flagLen)
	writeU16(buf, flags)

	buf.Write(nameBytes)
	buf.WriteByte(0)

	written := buf.Len() - start
	padded := 8 * ((written + 7) / 8)
	for i := written; i < padded; i++ {
		buf.WriteByte(0)
	}
}

func writeU32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

// ReadFile decodes the index file at path. A missing file is treated
// as an empty index, matching a freshly-initialized repository that
// has never run `add`.
func ReadFile(fs afero.Fs, path string) (*Index, error) {
	f, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open index %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck // we're only reading

	return Decode(f)
}

// WriteFile encodes idx and writes it to path.
func WriteFile(fs afero.Fs, path string, idx *Index) error {
	buf := new(bytes.Buffer)
	if err := Encode(buf, idx); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write index %s: %w", path, err)
	}
	return nil
}
