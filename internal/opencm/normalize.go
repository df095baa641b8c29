package opencm

import (
	"sort"
)

// Normalize puts the document into canonical form: edges sorted by source,
// then target, then type. Variable and equation maps need no reordering
// since encoding/json sorts map keys on marshal.
//
// Edge order is presentation-only in OpenCM; the causal structure is the
// edge set. Normalizing before hashing keeps a model's fingerprint stable
// under edge reordering.
//
// Normalize modifies the document in place and returns it for chaining.
func (d *Document) Normalize() *Document {
	sort.Slice(d.Edges, func(i, j int) bool {
		a, b := d.Edges[i], d.Edges[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target != b.Target {
			return a.Target < b.Target
		}
		return a.Type < b.Type
	})
	return d
}

// Normalized returns a normalized copy, leaving the original edge order
// untouched.
func (d *Document) Normalized() *Document {
	out := *d
	out.Edges = append([]EdgeDef(nil), d.Edges...)
	return out.Normalize()
}
