package object

import (
	"bytes"
	"fmt"
)

// kvlmEntry is a single key/value pair of a parsed KVLM document. The
// key is kept around even when it isn't one a specific object type has
// a typed field for, so that round-tripping an object with an
// unrecognized header never silently drops data.
type kvlmEntry struct {
	key   string
	value []byte
}

// kvlm is the key-value-list-with-message grammar shared by commit and
// tag objects: an insertion-ordered multimap (repeated keys, such as
// "parent", keep every value in encounter order) followed by a
// free-form message.
//
// Grounded on showa-93-wyag-go/object.go's Kvlm type (Add/Get/Serialize/
// ParseKvlm), the one example repo in the pack with a generic KVLM
// codec instead of an ad-hoc per-field parser.
type kvlm struct {
	entries []kvlmEntry
	message []byte
}

// get returns the first value stored under key.
func (d *kvlm) get(key string) ([]byte, bool) {
	for _, e := range d.entries {
		if e.key == key {
			return e.value, true
		}
	}
	return nil, false
}

// getAll returns every value stored under key, in encounter order.
func (d *kvlm) getAll(key string) [][]byte {
	var out [][]byte
	for _, e := range d.entries {
		if e.key == key {
			out = append(out, e.value)
		}
	}
	return out
}

// add appends a key/value pair, preserving insertion order.
func (d *kvlm) add(key string, value []byte) {
	d.entries = append(d.entries, kvlmEntry{key: key, value: value})
}

// parseKVLM decodes a KVLM document: a run of "key value" header lines
// terminated by a blank line, followed by the message.
//
// A continuation line (one starting with a single space) is folded
// into the previous value, with the leading space stripped; foldValue
// reverses this on emit. This is generic and applies to every key, not
// just "gpgsig" as the teacher's ad-hoc parser special-cased.
func parseKVLM(raw []byte) (*kvlm, error) {
	doc := &kvlm{}
	offset := 0
	for {
		nl := bytes.IndexByte(raw[offset:], '\n')
		if nl == -1 {
			return nil, fmt.Errorf("unterminated header line: %w", ErrObjectInvalid)
		}

		// A blank line ends the header block; everything after it is
		// the message.
		if nl == 0 {
			offset++
			doc.message = raw[offset:]
			return doc, nil
		}

		// Copy the line out so folding continuation lines into it
		// never mutates (or aliases) the still-unread remainder of raw.
		line := append([]byte(nil), raw[offset:offset+nl]...)
		end := offset + nl
		for end+1 < len(raw) && raw[end+1] == ' ' {
			cnl := bytes.IndexByte(raw[end+1:], '\n')
			if cnl == -1 {
				return nil, fmt.Errorf("unterminated continuation line: %w", ErrObjectInvalid)
			}
			line = append(line, '\n')
			line = append(line, raw[end+2:end+1+cnl]...)
			end += 1 + cnl
		}
		offset = end + 1

		sp := bytes.IndexByte(line, ' ')
		if sp == -1 {
			return nil, fmt.Errorf("header line %q has no key/value separator: %w", line, ErrObjectInvalid)
		}
		doc.add(string(line[:sp]), line[sp+1:])
	}
}

// serialize re-emits the document: each entry as "key value\n" (with
// embedded newlines folded back into space-prefixed continuation
// lines), a blank line, then the message.
func (d *kvlm) serialize() []byte {
	buf := new(bytes.Buffer)
	for _, e := range d.entries {
		buf.WriteString(e.key)
		buf.WriteByte(' ')
		buf.Write(foldValue(e.value))
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	buf.Write(d.message)
	return buf.Bytes()
}

// foldValue reinserts the space-prefixed continuation used to embed a
// raw "\n" inside a single KVLM value.
func foldValue(v []byte) []byte {
	return bytes.ReplaceAll(v, []byte("\n"), []byte("\n "))
}
