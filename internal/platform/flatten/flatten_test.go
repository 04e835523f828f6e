package flatten

import (
	"reflect"
	"testing"

	"github.com/statsloop/pitchdash/internal/platform/jsontree"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"no reserved tokens", "call__code", "call__code"},
		{"leading token stripped", "details__call__code", "call__code"},
		{"token in the middle", "pitchData__breaks__breakAngle", "breakAngle"},
		{"token at every depth", "pitchData__coordinates__pX", "pX"},
		{"trailing token stripped", "launchSpeed__hitData", "launchSpeed"},
		{"empty segments dropped", "call____code", "call__code"},
		{"all segments stripped falls back to original", "pitchData", "pitchData"},
		{"two tokens fall back to original", "details__pitchData", "details__pitchData"},
		{"array index survives", "details__0__call", "0__call"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeKey(tc.in); got != tc.want {
				t.Fatalf("NormalizeKey(%q): got=%q want=%q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeKeyIdempotent(t *testing.T) {
	keys := []string{
		"call__code",
		"details__call__code",
		"pitchData",
		"breaks__spinRate",
		"x__0__y",
	}
	for _, k := range keys {
		once := NormalizeKey(k)
		if twice := NormalizeKey(once); twice != once {
			t.Fatalf("normalization not idempotent for %q: once=%q twice=%q", k, once, twice)
		}
	}
}

func mustParse(t *testing.T, doc string) jsontree.Node {
	t.Helper()
	node, err := jsontree.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse %q: %v", doc, err)
	}
	return node
}

func TestFlatten(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want map[string]any
	}{
		{
			name: "scalar leaf",
			doc:  `{"a":{"b":3}}`,
			want: map[string]any{"a__b": float64(3)},
		},
		{
			name: "namespace token stripped",
			doc:  `{"details":{"call":{"code":"B"}}}`,
			want: map[string]any{"call__code": "B"},
		},
		{
			name: "array indexing",
			doc:  `{"x":[1,2]}`,
			want: map[string]any{"x__0": float64(1), "x__1": float64(2)},
		},
		{
			name: "array of objects",
			doc:  `{"runners":[{"id":7},{"id":9}]}`,
			want: map[string]any{"runners__0__id": float64(7), "runners__1__id": float64(9)},
		},
		{
			name: "nested arrays recurse symmetrically",
			doc:  `{"grid":[[1,2],[3]]}`,
			want: map[string]any{
				"grid__0__0": float64(1),
				"grid__0__1": float64(2),
				"grid__1__0": float64(3),
			},
		},
		{
			name: "mixed scalar kinds",
			doc:  `{"breaks":{"breakAngle":12.5,"spinDirection":228},"isPitch":true,"note":null}`,
			want: map[string]any{
				"breakAngle":    12.5,
				"spinDirection": float64(228),
				"isPitch":       true,
				"note":          nil,
			},
		},
		{
			name: "empty object",
			doc:  `{}`,
			want: map[string]any{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Flatten(mustParse(t, tc.doc), "")
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Flatten mismatch:\n got=%v\nwant=%v", got, tc.want)
			}
		})
	}
}

func TestFlattenNullNode(t *testing.T) {
	got := Flatten(jsontree.Null(), "")
	if len(got) != 0 {
		t.Fatalf("null node should flatten to empty map, got %v", got)
	}
}

func TestFlattenWithPrefix(t *testing.T) {
	got := Flatten(mustParse(t, `{"call":{"code":"S"}}`), "details")
	want := map[string]any{"call__code": "S"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("prefix flatten mismatch: got=%v want=%v", got, want)
	}
}

func TestFlattenLastWriteWins(t *testing.T) {
	// After stripping, "details__call" and "call" collide on the same flat
	// key; the later source member wins.
	got := Flatten(mustParse(t, `{"details":{"call":"first"},"call":"second"}`), "")
	if got["call"] != "second" {
		t.Fatalf("expected later member to overwrite, got %v", got["call"])
	}
}

func TestFlattenNoReservedSegmentsRemain(t *testing.T) {
	doc := `{"pitchData":{"breaks":{"breakHorizontal":-8.1},"coordinates":{"pX":0.52}},"hitData":{"launchAngle":22}}`
	got := Flatten(mustParse(t, doc), "")
	for key := range got {
		for _, token := range []string{"details", "pitchData", "hitData", "breaks", "coordinates"} {
			for _, seg := range splitSegments(key) {
				if seg == token {
					t.Fatalf("reserved segment %q survived in key %q", token, key)
				}
			}
		}
	}
	if len(got) != 3 {
		t.Fatalf("unexpected key count: got=%d want=3 (%v)", len(got), got)
	}
}

func splitSegments(key string) []string {
	var out []string
	start := 0
	for i := 0; i+1 < len(key); i++ {
		if key[i] == '_' && key[i+1] == '_' {
			out = append(out, key[start:i])
			start = i + 2
			i++
		}
	}
	return append(out, key[start:])
}
