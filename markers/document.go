package markers

import (
	"encoding/json"
	"slices"

	log "github.com/sirupsen/logrus"
)

// The name of a map layer, i.e. "overworld".
type Dimension = string

const (
	OVERWORLD Dimension = "overworld"
	NETHER    Dimension = "nether"
	END       Dimension = "end"
)

// Every dimension the shared document is expected to contain.
var DIMENSIONS = []Dimension{OVERWORLD, NETHER, END}

func IsKnownDimension(dim Dimension) bool {
	return slices.Contains(DIMENSIONS, dim)
}

// The unit of persistence: one ordered marker list per dimension, stored remotely as a single JSON object.
type Document map[Dimension][]Marker

// Creates a document with an empty list for every known dimension.
func NewDocument() Document {
	doc := make(Document, len(DIMENSIONS))
	for _, dim := range DIMENSIONS {
		doc[dim] = []Marker{}
	}

	return doc
}

// Makes sure every known dimension is present with a non-nil list so it always encodes as [].
// A nil document is replaced by an empty one.
func (d Document) Normalize() Document {
	if d == nil {
		return NewDocument()
	}

	for dim, ms := range d {
		if ms == nil {
			d[dim] = []Marker{}
		}
	}
	for _, dim := range DIMENSIONS {
		if _, ok := d[dim]; !ok {
			d[dim] = []Marker{}
		}
	}

	return d
}

func (d Document) Has(dim Dimension) bool {
	_, ok := d[dim]
	return ok
}

// Deep copies the document, including every marker.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}

	cpy := make(Document, len(d))
	for dim, ms := range d {
		if ms == nil {
			cpy[dim] = nil
			continue
		}

		list := make([]Marker, len(ms))
		for i, m := range ms {
			list[i] = m.Clone()
		}

		cpy[dim] = list
	}

	return cpy
}

// Total amount of markers across all dimensions.
func (d Document) Count() (total int) {
	for _, ms := range d {
		total += len(ms)
	}

	return
}

// Leniently decodes a stored document. Anything that is not an object yields an empty document,
// and any dimension whose value is not a list of markers is dropped (and logged) rather than failing the whole read.
func DecodeDocument(raw []byte) Document {
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		if len(raw) > 0 && string(raw) != "null" {
			log.WithError(err).Warn("stored marker document is malformed, treating it as empty")
		}

		return NewDocument()
	}

	doc := make(Document, len(parts))
	for dim, data := range parts {
		var ms []Marker
		if err := json.Unmarshal(data, &ms); err != nil {
			log.WithError(err).WithField("dimension", dim).Warn("dropping malformed dimension from marker document")
			continue
		}

		doc[dim] = ms
	}

	return doc.Normalize()
}
