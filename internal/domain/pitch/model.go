package pitch

import "time"

// Column names shared by every row of a game. Everything else on a row comes
// from the flattened per-pitch payload and varies by event.
const (
	ColGameID      = "game_id"
	ColGameDate    = "game_date"
	ColVenueName   = "venue_name"
	ColHomeTeam    = "home_team"
	ColAwayTeam    = "away_team"
	ColAtBatIndex  = "at_bat_index"
	ColPlayIndex   = "play_idx"
	ColInning      = "inning"
	ColIsTopInning = "is_top_inning"
	ColBatterID    = "batter_id"
	ColBatterName  = "batter_name"
	ColPitcherID   = "pitcher_id"
	ColPitcherName = "pitcher_name"
	ColBalls       = "balls"
	ColStrikes     = "strikes"
	ColOuts        = "outs"
	ColEventIndex  = "event_idx"
	ColPitchUID    = "pitch_uid"

	ColPitchType    = "type__description"
	ColStartSpeed   = "startSpeed"
	ColSpinRate     = "spinRate"
	ColBreakHorz    = "breakHorizontal"
	ColBreakVertInd = "breakVerticalInduced"
	ColExtension    = "extension"
	ColReleaseZ0    = "z0"
	ColReleasePosZ  = "releasePosZ"
)

// sortColumns order the assembled dataset; absent columns are skipped.
var sortColumns = []string{ColGameDate, ColGameID, ColAtBatIndex, ColEventIndex}

// Row is one pitch-level event merged with its play context. Values are
// scalars: string, float64, bool, int64, int, or nil.
type Row map[string]any

// Clone returns a shallow copy; rows are never mutated after assembly, but
// the builder copies the play context into each event row.
func (r Row) Clone() Row {
	out := make(Row, len(r)+8)
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Dataset is a rectangular table: every row carries every column, with nil
// filling the gaps left by optional subtrees.
type Dataset struct {
	Columns []string
	Rows    []Row
}

func (d Dataset) IsEmpty() bool { return len(d.Rows) == 0 }

// Snapshot is one date's assembled dataset as persisted by a repository.
type Snapshot struct {
	Date      string
	Dataset   Dataset
	FetchedAt time.Time
}
