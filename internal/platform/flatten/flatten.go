// Package flatten collapses a nested payload tree into a single-level map
// keyed by "__"-joined path segments, stripping the provider's structural
// namespace wrappers from the keys.
package flatten

import (
	"strconv"
	"strings"

	"github.com/statsloop/pitchdash/internal/platform/jsontree"
)

// Sep joins path segments in flattened keys.
const Sep = "__"

// stripTokens are structural wrapper names in the provider schema. They exist
// purely for nesting and carry no meaning once the tree is flat.
var stripTokens = map[string]struct{}{
	"details":     {},
	"pitchData":   {},
	"hitData":     {},
	"breaks":      {},
	"coordinates": {},
}

// NormalizeKey removes namespace tokens from anywhere in a flattened key path
// and drops empty segments, preserving the remaining segments in order.
// Structure like "call__code" survives untouched. When stripping leaves
// nothing (the key was namespace tokens all the way down), the original key is
// returned unchanged; downstream consumers depend on that fallback.
func NormalizeKey(key string) string {
	parts := strings.Split(key, Sep)
	kept := parts[:0]
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, reserved := stripTokens[p]; reserved {
			continue
		}
		kept = append(kept, p)
	}
	if len(kept) == 0 {
		return key
	}
	return strings.Join(kept, Sep)
}

// Flatten walks node and returns a map from normalized composite keys to
// scalar leaf values. Object members are visited in source order and arrays
// contribute their 0-based index as a path segment (indices are never
// stripped). Key collisions after normalization resolve last-write-wins.
// A null or zero node yields an empty map.
func Flatten(node jsontree.Node, prefix string) map[string]any {
	out := make(map[string]any)
	flattenInto(out, node, prefix)
	return out
}

func flattenInto(out map[string]any, node jsontree.Node, prefix string) {
	switch node.Kind() {
	case jsontree.KindObject:
		for _, m := range node.Members() {
			key := m.Key
			if prefix != "" {
				key = prefix + Sep + m.Key
			}
			if m.Value.IsScalar() {
				out[NormalizeKey(key)] = m.Value.Scalar()
				continue
			}
			flattenInto(out, m.Value, key)
		}
	case jsontree.KindArray:
		for i, elem := range node.Elems() {
			key := strconv.Itoa(i)
			if prefix != "" {
				key = prefix + Sep + key
			}
			if elem.IsScalar() {
				out[NormalizeKey(key)] = elem.Scalar()
				continue
			}
			// Nested containers recurse the same way at every depth.
			flattenInto(out, elem, key)
		}
	}
}
