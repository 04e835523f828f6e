package querybuilder

import (
	"reflect"
	"testing"
)

func TestSelectToSQL(t *testing.T) {
	sql, args, err := Select("snapshot_date", "payload").
		From("pitch_snapshots").
		Where(Eq("snapshot_date", "2025-10-07")).
		OrderBy("snapshot_date DESC").
		Limit(1).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := "SELECT snapshot_date, payload FROM pitch_snapshots WHERE snapshot_date = $1 ORDER BY snapshot_date DESC LIMIT 1"
	if sql != wantSQL {
		t.Fatalf("sql = %q, want %q", sql, wantSQL)
	}
	if !reflect.DeepEqual(args, []any{"2025-10-07"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectMultipleConditions(t *testing.T) {
	sql, args, err := Select("id").
		From("raw_feeds").
		Where(Eq("source", "mlb-statsapi"), Gte("fetched_at", "2025-10-01")).
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := "SELECT id FROM raw_feeds WHERE source = $1 AND fetched_at >= $2"
	if sql != wantSQL {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestSelectValidation(t *testing.T) {
	if _, _, err := Select().From("t").ToSQL(); err == nil {
		t.Fatal("expected error for missing columns")
	}
	if _, _, err := Select("a").ToSQL(); err == nil {
		t.Fatal("expected error for missing table")
	}
}

func TestInsertToSQL(t *testing.T) {
	sql, args, err := InsertInto("pitch_snapshots").
		Columns("snapshot_date", "payload").
		Values("2025-10-07", []byte(`{}`)).
		Suffix("ON CONFLICT (snapshot_date) DO UPDATE SET payload = EXCLUDED.payload").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := "INSERT INTO pitch_snapshots (snapshot_date, payload) VALUES ($1, $2) ON CONFLICT (snapshot_date) DO UPDATE SET payload = EXCLUDED.payload"
	if sql != wantSQL {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 2 {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertMultiRow(t *testing.T) {
	sql, args, err := InsertInto("raw_feeds").
		Columns("entity_key", "payload").
		Values("a", "1").
		Values("b", "2").
		ToSQL()
	if err != nil {
		t.Fatalf("ToSQL: %v", err)
	}

	wantSQL := "INSERT INTO raw_feeds (entity_key, payload) VALUES ($1, $2), ($3, $4)"
	if sql != wantSQL {
		t.Fatalf("sql = %q", sql)
	}
	if len(args) != 4 {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertRowArity(t *testing.T) {
	_, _, err := InsertInto("t").Columns("a", "b").Values("only-one").ToSQL()
	if err == nil {
		t.Fatal("expected arity error")
	}
}

func TestInsertModel(t *testing.T) {
	model := struct {
		Date    string `db:"snapshot_date"`
		Payload string `db:"payload"`
		skipped string `db:"nope"`
		NoTag   string
	}{Date: "2025-10-07", Payload: "{}"}

	sql, args, err := InsertModel("pitch_snapshots", model, "ON CONFLICT (snapshot_date) DO NOTHING")
	if err != nil {
		t.Fatalf("InsertModel: %v", err)
	}

	wantSQL := "INSERT INTO pitch_snapshots (snapshot_date, payload) VALUES ($1, $2) ON CONFLICT (snapshot_date) DO NOTHING"
	if sql != wantSQL {
		t.Fatalf("sql = %q", sql)
	}
	if !reflect.DeepEqual(args, []any{"2025-10-07", "{}"}) {
		t.Fatalf("args = %v", args)
	}
}

func TestInsertModel_RejectsNonStruct(t *testing.T) {
	if _, _, err := InsertModel("t", 42, ""); err == nil {
		t.Fatal("expected error for non-struct model")
	}
}
