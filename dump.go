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

package osmbuf

import (
	"fmt"
	"io"

	"m4o.io/osmbuf/memory"
)

// Dump is a debugging consumer that renders entities and their nested
// sub-items as indented text, one line per field, recursing through the
// same dispatch mechanism any other consumer would use.
type Dump struct {
	out      io.Writer
	withSize bool
	prefix   string
}

// DumpOption configures how a Dump is set up.
type DumpOption func(*Dump)

// WithItemSizes annotates each record title with the record's padded
// byte size.
func WithItemSizes() DumpOption {
	return func(d *Dump) {
		d.withSize = true
	}
}

// WithPrefix prepends every output line with the given prefix.
func WithPrefix(prefix string) DumpOption {
	return func(d *Dump) {
		d.prefix = prefix
	}
}

// NewDump returns a Dump writing to out.
func NewDump(out io.Writer, opts ...DumpOption) *Dump {
	d := &Dump{out: out}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Apply renders one record.
func (d *Dump) Apply(item memory.Item) error {
	return Apply(item, d.Handler())
}

// Handler returns the dispatch handler set rendering records to the
// dump's output.
func (d *Dump) Handler() *Handler {
	return &Handler{
		Node: func(n Node) error {
			d.title("NODE", n.Item())

			if err := d.meta(n.Object); err != nil {
				return err
			}

			loc := n.Location()
			fmt.Fprintf(d.out, "%s  lon=%.7f\n", d.prefix, float64(loc.Lon()))
			fmt.Fprintf(d.out, "%s  lat=%.7f\n", d.prefix, float64(loc.Lat()))

			return d.subItems(n.Object)
		},
		Way: func(w Way) error {
			d.title("WAY", w.Item())

			if err := d.meta(w.Object); err != nil {
				return err
			}

			return d.subItems(w.Object)
		},
		Relation: func(r Relation) error {
			d.title("RELATION", r.Item())

			if err := d.meta(r.Object); err != nil {
				return err
			}

			return d.subItems(r.Object)
		},
		TagList: func(tags TagList) error {
			d.title("TAGS", tags.Item())

			for tag := range tags.All() {
				fmt.Fprintf(d.out, "%s  k=|%s| v=|%s|\n", d.prefix, tag.Key, tag.Value)
			}

			return nil
		},
		WayNodeList: func(nodes WayNodeList) error {
			d.title("NODES", nodes.Item())

			for wn := range nodes.All() {
				fmt.Fprintf(d.out, "%s  ref=%d", d.prefix, wn.Ref())

				if loc, ok := wn.Location(); ok && loc.Defined() {
					fmt.Fprintf(d.out, " pos=%s", loc)
				}

				fmt.Fprintln(d.out)
			}

			return nil
		},
		RelationMemberList: func(members RelationMemberList) error {
			d.title("MEMBERS", members.Item())

			for member := range members.All() {
				fmt.Fprintf(d.out, "%s  type=%s ref=%d role=|%s|\n",
					d.prefix, member.MemberType(), member.Ref(), member.Role())

				if full, ok := member.FullObject(); ok {
					inner := d.nested("  | ")
					if err := inner.Apply(full.Item()); err != nil {
						return err
					}
				}
			}

			return nil
		},
	}
}

func (d *Dump) title(title string, item memory.Item) {
	fmt.Fprintf(d.out, "%s%s:", d.prefix, title)

	if d.withSize {
		fmt.Fprintf(d.out, " [%d]", item.Size())
	}

	fmt.Fprintln(d.out)
}

func (d *Dump) meta(o Object) error {
	fmt.Fprintf(d.out, "%s  id=%d\n", d.prefix, o.ID())
	fmt.Fprintf(d.out, "%s  version=%d\n", d.prefix, o.Version())
	fmt.Fprintf(d.out, "%s  uid=%d\n", d.prefix, o.UID())
	fmt.Fprintf(d.out, "%s  user=|%s|\n", d.prefix, o.User())
	fmt.Fprintf(d.out, "%s  changeset=%d\n", d.prefix, o.Changeset())
	fmt.Fprintf(d.out, "%s  timestamp=%s\n", d.prefix, o.Timestamp().Format(TimestampFormat))

	visible := "no"
	if o.Visible() {
		visible = "yes"
	}

	fmt.Fprintf(d.out, "%s  visible=%s\n", d.prefix, visible)

	return nil
}

func (d *Dump) subItems(o Object) error {
	return ApplySubItems(o, d.nested("  ").Handler())
}

func (d *Dump) nested(indent string) *Dump {
	inner := &Dump{out: d.out, withSize: d.withSize, prefix: d.prefix + indent}

	return inner
}
