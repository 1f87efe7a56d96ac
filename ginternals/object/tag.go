package object

import (
	"fmt"

	"github.com/Nivl/git-go/ginternals"
)

// TagParams represents all the data needed to create a Tag
// Params starting by Opt are optionals
type TagParams struct {
	Target    *Object
	Name      string
	Tagger    Signature
	Message   string
	OptGPGSig string
}

// Tag represents a Tag object
type Tag struct {
	rawObject *Object

	tagger  Signature
	tag     string
	message string

	gpgSig string

	id     ginternals.Oid
	target ginternals.Oid

	typ Type

	extraHeaders []kvlmEntry
}

// NewTag creates a new Tag object pointing at an already-persisted
// target. Target must have been written to the odb (and thus have a
// valid ID) beforehand.
func NewTag(p *TagParams) (*Tag, error) {
	if p.Target == nil || !p.Target.Type().IsValid() {
		return nil, fmt.Errorf("tag target must be a persisted object: %w", ErrObjectInvalid)
	}
	t := &Tag{
		target:  p.Target.ID(),
		typ:     p.Target.Type(),
		tag:     p.Name,
		tagger:  p.Tagger,
		message: p.Message,
		gpgSig:  p.OptGPGSig,
	}
	t.rawObject = t.ToObject()
	return t, nil
}

// NewTagFromObject creates a new Tag from a raw git object
//
// A tag has following format:
//
// object {sha}
// type {target_object_type}
// tag {tag_name}
// tagger {author_name} <{author_email}> {author_date_seconds} {author_date_timezone}
// gpgsig -----BEGIN PGP SIGNATURE-----
// {gpg key over multiple lines}
//  -----END PGP SIGNATURE-----
// {a blank line}
// {tag message}
//
// Note:
// - The gpgsig is optional
func NewTagFromObject(o *Object) (*Tag, error) {
	if o.typ != TypeTag {
		return nil, fmt.Errorf("type %s is not a tag: %w", o.typ, ErrObjectInvalid)
	}
	doc, err := parseKVLM(o.Bytes())
	if err != nil {
		return nil, fmt.Errorf("could not parse tag: %w", err)
	}
	tag := &Tag{
		id:        o.ID(),
		rawObject: o,
		message:   string(doc.message),
	}

	for _, e := range doc.entries {
		switch e.key {
		case "object":
			tag.target, err = ginternals.NewOidFromChars(e.value)
			if err != nil {
				return nil, fmt.Errorf("could not parse target id %#v: %w", e.value, err)
			}
		case "type":
			tag.typ, err = NewTypeFromString(string(e.value))
			if err != nil {
				return nil, fmt.Errorf("invalid object type %s: %w", string(e.value), err)
			}
		case "tagger":
			tag.tagger, err = NewSignatureFromBytes(e.value)
			if err != nil {
				return nil, fmt.Errorf("could not parse tagger [%s]: %w", e.value, err)
			}
		case "tag":
			tag.tag = string(e.value)
		case "gpgsig":
			tag.gpgSig = string(e.value)
		default:
			tag.extraHeaders = append(tag.extraHeaders, e)
		}
	}

	// validate the tag
	if tag.tagger.IsZero() {
		return nil, fmt.Errorf("tag has no tagger: %w", ErrTagInvalid)
	}
	if tag.target.IsZero() {
		return nil, fmt.Errorf("tag has no target: %w", ErrTagInvalid)
	}
	if !tag.typ.IsValid() {
		return nil, fmt.Errorf("tag has no type: %w", ErrTagInvalid)
	}

	return tag, nil
}

// ID returns the SHA of the tag object
func (t *Tag) ID() ginternals.Oid {
	return t.rawObject.ID()
}

// Target returns the ID of the object targeted by the tag
func (t *Tag) Target() ginternals.Oid {
	return t.target
}

// Type returns the type of the targeted object
func (t *Tag) Type() Type {
	return t.typ
}

// Name returns the tag's name
func (t *Tag) Name() string {
	return t.tag
}

// Tagger returns the Signature of the person that created the tag
func (t *Tag) Tagger() Signature {
	return t.tagger
}

// Message returns the tag's message
func (t *Tag) Message() string {
	return t.message
}

// GPGSig returns the GPG signature of the tag, if any
func (t *Tag) GPGSig() string {
	return t.gpgSig
}

// ExtraHeaders returns the header keys this package has no typed field
// for, in encounter order, keyed by header name.
func (t *Tag) ExtraHeaders() map[string][]string {
	out := map[string][]string{}
	for _, e := range t.extraHeaders {
		out[e.key] = append(out[e.key], string(e.value))
	}
	return out
}

// ToObject returns the underlying Object
func (t *Tag) ToObject() *Object {
	if t.rawObject != nil {
		return t.rawObject
	}

	doc := &kvlm{message: []byte(t.message)}
	doc.add("object", []byte(t.target.String()))
	doc.add("type", []byte(t.Type().String()))
	doc.add("tag", []byte(t.Name()))
	doc.add("tagger", []byte(t.Tagger().String()))
	for _, e := range t.extraHeaders {
		doc.add(e.key, e.value)
	}
	if t.gpgSig != "" {
		doc.add("gpgsig", []byte(t.gpgSig))
	}
	return New(TypeTag, doc.serialize())
}
