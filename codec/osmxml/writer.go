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

package osmxml

import (
	"encoding/xml"
	"errors"
	"io"
	"strconv"

	"m4o.io/osmbuf"
	"m4o.io/osmbuf/codec"
	"m4o.io/osmbuf/memory"
)

// DefaultGenerator names this library in documents it produces.
const DefaultGenerator = "osmbuf"

// Writer renders committed entity buffers as an OSM XML document.
type Writer struct {
	out     io.Writer
	enc     *xml.Encoder
	md      codec.Metadata
	started bool
}

// NewWriter returns a Writer producing an indented document on out.
func NewWriter(out io.Writer) *Writer {
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")

	return &Writer{out: out, enc: enc}
}

// WriteMetadata records the stream metadata. It must precede the first
// Write.
func (w *Writer) WriteMetadata(md codec.Metadata) error {
	if w.started {
		return errors.New("metadata must precede entities")
	}

	w.md = md

	return nil
}

// Write renders every committed record in buf. The buffer is not
// mutated.
func (w *Writer) Write(buf *memory.Buffer) error {
	if err := w.start(); err != nil {
		return err
	}

	return osmbuf.ApplyAll(buf.Items(), &osmbuf.Handler{
		Node:     w.writeNode,
		Way:      w.writeWay,
		Relation: w.writeRelation,
	})
}

// Close ends the osm root element and flushes the encoder. An empty
// stream still yields a well-formed document.
func (w *Writer) Close() error {
	if err := w.start(); err != nil {
		return err
	}

	if err := w.enc.EncodeToken(xml.EndElement{Name: name("osm")}); err != nil {
		return err
	}

	return w.enc.Flush()
}

func (w *Writer) start() error {
	if w.started {
		return nil
	}

	w.started = true

	if _, err := io.WriteString(w.out, xml.Header); err != nil {
		return err
	}

	generator := w.md.Generator
	if generator == "" {
		generator = DefaultGenerator
	}

	osm := xml.StartElement{Name: name("osm"), Attr: []xml.Attr{
		attr("version", "0.6"),
		attr("generator", generator),
	}}

	if err := w.enc.EncodeToken(osm); err != nil {
		return err
	}

	if b := w.md.Bounds; b != nil {
		bounds := xml.StartElement{Name: name("bounds"), Attr: []xml.Attr{
			attr("minlat", degrees(b.Bottom)),
			attr("minlon", degrees(b.Left)),
			attr("maxlat", degrees(b.Top)),
			attr("maxlon", degrees(b.Right)),
		}}

		if err := w.enc.EncodeToken(bounds); err != nil {
			return err
		}

		return w.enc.EncodeToken(bounds.End())
	}

	return nil
}

func (w *Writer) writeNode(n osmbuf.Node) error {
	attrs := objectAttrs(n.Object)

	if loc := n.Location(); loc.Defined() {
		attrs = append(attrs,
			attr("lat", degrees(loc.Lat())),
			attr("lon", degrees(loc.Lon())))
	}

	se := xml.StartElement{Name: name("node"), Attr: attrs}

	if err := w.enc.EncodeToken(se); err != nil {
		return err
	}

	if err := w.writeTags(n.Tags()); err != nil {
		return err
	}

	return w.enc.EncodeToken(se.End())
}

func (w *Writer) writeWay(way osmbuf.Way) error {
	se := xml.StartElement{Name: name("way"), Attr: objectAttrs(way.Object)}

	if err := w.enc.EncodeToken(se); err != nil {
		return err
	}

	for wn := range way.Nodes().All() {
		nd := xml.StartElement{Name: name("nd"), Attr: []xml.Attr{
			attr("ref", strconv.FormatInt(wn.Ref(), 10)),
		}}

		if err := w.enc.EncodeToken(nd); err != nil {
			return err
		}

		if err := w.enc.EncodeToken(nd.End()); err != nil {
			return err
		}
	}

	if err := w.writeTags(way.Tags()); err != nil {
		return err
	}

	return w.enc.EncodeToken(se.End())
}

func (w *Writer) writeRelation(rel osmbuf.Relation) error {
	se := xml.StartElement{Name: name("relation"), Attr: objectAttrs(rel.Object)}

	if err := w.enc.EncodeToken(se); err != nil {
		return err
	}

	// full members flatten back to references; XML cannot carry them
	for m := range rel.Members().All() {
		member := xml.StartElement{Name: name("member"), Attr: []xml.Attr{
			attr("type", m.MemberType().String()),
			attr("ref", strconv.FormatInt(m.Ref(), 10)),
			attr("role", m.Role()),
		}}

		if err := w.enc.EncodeToken(member); err != nil {
			return err
		}

		if err := w.enc.EncodeToken(member.End()); err != nil {
			return err
		}
	}

	if err := w.writeTags(rel.Tags()); err != nil {
		return err
	}

	return w.enc.EncodeToken(se.End())
}

func (w *Writer) writeTags(tags osmbuf.TagList) error {
	for tag := range tags.All() {
		se := xml.StartElement{Name: name("tag"), Attr: []xml.Attr{
			attr("k", tag.Key),
			attr("v", tag.Value),
		}}

		if err := w.enc.EncodeToken(se); err != nil {
			return err
		}

		if err := w.enc.EncodeToken(se.End()); err != nil {
			return err
		}
	}

	return nil
}

// objectAttrs renders the metadata attributes, omitting those still at
// their zero defaults.
func objectAttrs(o osmbuf.Object) []xml.Attr {
	attrs := []xml.Attr{attr("id", strconv.FormatInt(o.ID(), 10))}

	if v := o.Version(); v != 0 {
		attrs = append(attrs, attr("version", strconv.FormatUint(uint64(v), 10)))
	}

	if ts := o.Timestamp(); ts.Unix() != 0 {
		attrs = append(attrs, attr("timestamp", ts.Format(osmbuf.TimestampFormat)))
	}

	if uid := o.UID(); uid != 0 {
		attrs = append(attrs, attr("uid", strconv.FormatUint(uint64(uid), 10)))
	}

	if user := o.User(); user != "" {
		attrs = append(attrs, attr("user", user))
	}

	if cs := o.Changeset(); cs != 0 {
		attrs = append(attrs, attr("changeset", strconv.FormatInt(cs, 10)))
	}

	if o.Deleted() {
		attrs = append(attrs, attr("visible", "false"))
	}

	return attrs
}

func name(local string) xml.Name { return xml.Name{Local: local} }

func attr(local, value string) xml.Attr {
	return xml.Attr{Name: name(local), Value: value}
}

func degrees(d osmbuf.Degrees) string {
	return strconv.FormatFloat(float64(d), 'f', 7, 64)
}
