// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package osmxml reads and writes the OSM XML format as committed entity
// buffers. It is a concrete collaborator of the codec contract: the
// reader batches entities into buffers whose ownership transfers to the
// caller, the writer renders buffers through tagged dispatch.
package osmxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"m4o.io/osmbuf"
	"m4o.io/osmbuf/codec"
	"m4o.io/osmbuf/memory"
)

// DefaultBatchSize is the number of entities batched into one buffer.
const DefaultBatchSize = 1024

// Reader parses an OSM XML document into committed entity buffers.
type Reader struct {
	dec     *xml.Decoder
	md      codec.Metadata
	batch   int
	pending *xml.StartElement
	done    bool
}

// ReaderOption configures how a Reader is set up.
type ReaderOption func(*Reader)

// WithBatchSize bounds the number of entities per returned buffer.
func WithBatchSize(n int) ReaderOption {
	return func(r *Reader) {
		if n > 0 {
			r.batch = n
		}
	}
}

// NewReader parses the document prolog and the osm root element,
// leaving the reader positioned at the first entity.
func NewReader(in io.Reader, opts ...ReaderOption) (*Reader, error) {
	r := &Reader{dec: xml.NewDecoder(in), batch: DefaultBatchSize}

	for _, opt := range opts {
		opt(r)
	}

	if err := r.readHeader(); err != nil {
		return nil, err
	}

	return r, nil
}

// Metadata reports the generator and bounds declared by the document.
func (r *Reader) Metadata() codec.Metadata { return r.md }

// Read returns the next batch of entities, io.EOF once the document is
// exhausted.
func (r *Reader) Read() (*memory.Buffer, error) {
	if r.done {
		return nil, io.EOF
	}

	buf := memory.NewBuffer()

	var count int

	for count < r.batch {
		se, ok, err := r.nextElement()
		if err != nil {
			return nil, err
		}

		if !ok {
			r.done = true

			break
		}

		switch se.Name.Local {
		case "node", "way", "relation":
			if err := r.decodeEntity(buf, se); err != nil {
				return nil, err
			}

			count++
		default:
			// changesets, notes and anything else foreign
			if err := r.dec.Skip(); err != nil {
				return nil, err
			}
		}
	}

	if count == 0 {
		return nil, io.EOF
	}

	return buf, nil
}

func (r *Reader) readHeader() error {
	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: missing osm root element", osmbuf.ErrParse)
			}

			return err
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if se.Name.Local != "osm" {
			return fmt.Errorf("%w: unexpected root element %q", osmbuf.ErrParse, se.Name.Local)
		}

		for _, a := range se.Attr {
			if a.Name.Local == "generator" {
				r.md.Generator = a.Value
			}
		}

		break
	}

	// an optional bounds element precedes the entities
	se, ok, err := r.nextElement()
	if err != nil {
		return err
	}

	if !ok {
		r.done = true

		return nil
	}

	if se.Name.Local != "bounds" {
		r.pending = &se

		return nil
	}

	bounds, err := parseBounds(se)
	if err != nil {
		return err
	}

	r.md.Bounds = bounds

	return r.dec.Skip()
}

// nextElement returns the next start element inside the osm root, or
// ok=false once the root closes.
func (r *Reader) nextElement() (xml.StartElement, bool, error) {
	if r.pending != nil {
		se := *r.pending
		r.pending = nil

		return se, true, nil
	}

	for {
		tok, err := r.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return xml.StartElement{}, false, nil
			}

			return xml.StartElement{}, false, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			return t, true, nil
		case xml.EndElement:
			if t.Name.Local == "osm" {
				return xml.StartElement{}, false, nil
			}
		}
	}
}

type rawMember struct {
	typ  memory.ItemType
	ref  int64
	role string
}

// decodeEntity collects the element's children, then drives a builder.
// Children are collected first because the packed layout wants the tag
// list written before the geometry list, while OSM XML interleaves them
// the other way around.
func (r *Reader) decodeEntity(buf *memory.Buffer, se xml.StartElement) error {
	var (
		tags    []osmbuf.Tag
		refs    []int64
		members []rawMember
	)

	for {
		tok, err := r.dec.Token()
		if err != nil {
			return err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tag":
				tags = append(tags, osmbuf.Tag{Key: attrValue(t, "k"), Value: attrValue(t, "v")})
			case "nd":
				ref, err := strconv.ParseInt(attrValue(t, "ref"), 10, 64)
				if err != nil {
					return fmt.Errorf("%w: %q is not a node reference", osmbuf.ErrParse, attrValue(t, "ref"))
				}

				refs = append(refs, ref)
			case "member":
				m, err := parseMember(t)
				if err != nil {
					return err
				}

				members = append(members, m)
			}

			if err := r.dec.Skip(); err != nil {
				return err
			}
		case xml.EndElement:
			return buildEntity(buf, se, tags, refs, members)
		}
	}
}

// attributeSetter is the slice of the builder surface the attribute
// stream needs.
type attributeSetter interface {
	SetAttribute(name, value string) error
	SetUser(name string) error
}

// applyAttrs feeds the element's attributes to the builder, returning
// lat and lon untouched for the caller to resolve into a location.
func applyAttrs(b attributeSetter, se xml.StartElement) (lat, lon string, err error) {
	var user string

	for _, a := range se.Attr {
		switch a.Name.Local {
		case "lat":
			lat = a.Value
		case "lon":
			lon = a.Value
		case "user":
			user = a.Value
		default:
			if err := b.SetAttribute(a.Name.Local, a.Value); err != nil {
				return "", "", err
			}
		}
	}

	if user != "" {
		if err := b.SetUser(user); err != nil {
			return "", "", err
		}
	}

	return lat, lon, nil
}

func buildEntity(buf *memory.Buffer, se xml.StartElement, tags []osmbuf.Tag, refs []int64, members []rawMember) error {
	switch se.Name.Local {
	case "node":
		return buildNode(buf, se, tags)
	case "way":
		return buildWay(buf, se, tags, refs)
	case "relation":
		return buildRelation(buf, se, tags, members)
	default:
		return fmt.Errorf("%w: %q is not an entity", osmbuf.ErrParse, se.Name.Local)
	}
}

func buildNode(buf *memory.Buffer, se xml.StartElement, tags []osmbuf.Tag) error {
	nb, err := osmbuf.NewNodeBuilder(buf)
	if err != nil {
		return err
	}

	latS, lonS, err := applyAttrs(nb, se)
	if err != nil {
		return err
	}

	if latS != "" && lonS != "" {
		lat, err := osmbuf.ParseDegrees(latS)
		if err != nil {
			return err
		}

		lon, err := osmbuf.ParseDegrees(lonS)
		if err != nil {
			return err
		}

		nb.SetLocation(osmbuf.NewLocation(lon, lat))
	}

	if err := addTags(nb.Tags, tags); err != nil {
		return err
	}

	_, err = nb.Commit()

	return err
}

func buildWay(buf *memory.Buffer, se xml.StartElement, tags []osmbuf.Tag, refs []int64) error {
	wb, err := osmbuf.NewWayBuilder(buf)
	if err != nil {
		return err
	}

	if _, _, err := applyAttrs(wb, se); err != nil {
		return err
	}

	if err := addTags(wb.Tags, tags); err != nil {
		return err
	}

	if len(refs) > 0 {
		nodes, err := wb.Nodes()
		if err != nil {
			return err
		}

		for _, ref := range refs {
			if err := nodes.Add(ref); err != nil {
				return err
			}
		}
	}

	_, err = wb.Commit()

	return err
}

func buildRelation(buf *memory.Buffer, se xml.StartElement, tags []osmbuf.Tag, members []rawMember) error {
	rb, err := osmbuf.NewRelationBuilder(buf)
	if err != nil {
		return err
	}

	if _, _, err := applyAttrs(rb, se); err != nil {
		return err
	}

	if err := addTags(rb.Tags, tags); err != nil {
		return err
	}

	if len(members) > 0 {
		list, err := rb.Members()
		if err != nil {
			return err
		}

		for _, m := range members {
			if err := list.Add(m.typ, m.ref, m.role); err != nil {
				return err
			}
		}
	}

	_, err = rb.Commit()

	return err
}

func addTags(open func() (*osmbuf.TagListBuilder, error), tags []osmbuf.Tag) error {
	if len(tags) == 0 {
		return nil
	}

	tb, err := open()
	if err != nil {
		return err
	}

	for _, tag := range tags {
		if err := tb.Add(tag.Key, tag.Value); err != nil {
			return err
		}
	}

	return nil
}

func parseMember(se xml.StartElement) (rawMember, error) {
	var m rawMember

	switch typ := attrValue(se, "type"); typ {
	case "node":
		m.typ = memory.Node
	case "way":
		m.typ = memory.Way
	case "relation":
		m.typ = memory.Relation
	default:
		return rawMember{}, fmt.Errorf("%w: %q is not a member type", osmbuf.ErrParse, typ)
	}

	ref, err := strconv.ParseInt(attrValue(se, "ref"), 10, 64)
	if err != nil {
		return rawMember{}, fmt.Errorf("%w: %q is not a member reference", osmbuf.ErrParse, attrValue(se, "ref"))
	}

	m.ref = ref
	m.role = attrValue(se, "role")

	return m, nil
}

func parseBounds(se xml.StartElement) (*codec.BoundingBox, error) {
	bounds := &codec.BoundingBox{}

	for _, a := range se.Attr {
		d, err := osmbuf.ParseDegrees(a.Value)
		if err != nil {
			return nil, err
		}

		switch a.Name.Local {
		case "minlat":
			bounds.Bottom = d
		case "minlon":
			bounds.Left = d
		case "maxlat":
			bounds.Top = d
		case "maxlon":
			bounds.Right = d
		}
	}

	return bounds, nil
}

func attrValue(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}

	return ""
}
