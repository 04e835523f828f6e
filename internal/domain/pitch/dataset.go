package pitch

import (
	"sort"

	"github.com/statsloop/pitchdash/internal/platform/jsontree"
)

// BuildDataset aligns heterogeneous rows into one rectangular table. The
// column set is the sorted union of all keys; rows missing a column get nil.
// Rows sort ascending by whichever of (game_date, game_id, at_bat_index,
// event_idx) are present, in that priority; an absent sort column is simply
// excluded from the key.
func BuildDataset(rows []Row) Dataset {
	if len(rows) == 0 {
		return Dataset{}
	}

	columnSet := make(map[string]struct{}, 64)
	for _, row := range rows {
		for key := range row {
			columnSet[key] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	aligned := make([]Row, len(rows))
	for i, row := range rows {
		out := make(Row, len(columns))
		for _, col := range columns {
			if v, ok := row[col]; ok {
				out[col] = v
			} else {
				out[col] = nil
			}
		}
		aligned[i] = out
	}

	var sortKey []string
	for _, col := range sortColumns {
		if _, ok := columnSet[col]; ok {
			sortKey = append(sortKey, col)
		}
	}

	sort.SliceStable(aligned, func(i, j int) bool {
		for _, col := range sortKey {
			if c := compareValues(aligned[i][col], aligned[j][col]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	return Dataset{Columns: columns, Rows: aligned}
}

// MergeRows concatenates the rows of several datasets; callers pass the
// result back through BuildDataset to realign columns across days.
func MergeRows(datasets ...Dataset) []Row {
	total := 0
	for _, d := range datasets {
		total += len(d.Rows)
	}
	out := make([]Row, 0, total)
	for _, d := range datasets {
		out = append(out, d.Rows...)
	}
	return out
}

// FilterRows returns the rows for which keep is true.
func (d Dataset) FilterRows(keep func(Row) bool) []Row {
	out := make([]Row, 0, len(d.Rows))
	for _, row := range d.Rows {
		if keep(row) {
			out = append(out, row)
		}
	}
	return out
}

// HasColumn reports whether the dataset carries the named column.
func (d Dataset) HasColumn(name string) bool {
	for _, col := range d.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// compareValues orders scalar cell values: nil sorts first, then numbers,
// bools, and strings within their own kind. Mixed kinds fall back to their
// string renderings so the sort stays total.
func compareValues(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return -1
	}
	if b == nil {
		return 1
	}

	if fa, aok := asFloat(a); aok {
		if fb, bok := asFloat(b); bok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}

	if ba, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			switch {
			case !ba && bb:
				return -1
			case ba && !bb:
				return 1
			default:
				return 0
			}
		}
	}

	sa, sb := asString(a), asString(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return jsontree.FormatScalar(v)
}
