package pitch

import (
	"strconv"

	"github.com/statsloop/pitchdash/internal/platform/flatten"
	"github.com/statsloop/pitchdash/internal/platform/jsontree"
)

// RowsFromFeed extracts pitch-level rows from one game's live-feed payload.
// Non-pitch play events (mound visits, pickoffs flagged isPitch=false)
// contribute no rows. Row order is ascending by play index, then by event
// index within the play. A payload without a play list yields nil.
func RowsFromFeed(feed jsontree.Node, gamePk int64) []Row {
	gameDate := feed.ScalarAt("gameData", "datetime", "officialDate")
	venueName := feed.ScalarAt("gameData", "venue", "name")
	homeName := feed.ScalarAt("gameData", "teams", "home", "name")
	awayName := feed.ScalarAt("gameData", "teams", "away", "name")

	plays, ok := feed.Get("liveData", "plays", "allPlays")
	if !ok || plays.Len() == 0 {
		return nil
	}

	var rows []Row
	for playIdx, play := range plays.Elems() {
		atBatIndex := play.ScalarAt("atBatIndex")

		ctx := Row{
			ColGameID:      gamePk,
			ColGameDate:    gameDate,
			ColVenueName:   venueName,
			ColHomeTeam:    homeName,
			ColAwayTeam:    awayName,
			ColAtBatIndex:  atBatIndex,
			ColPlayIndex:   playIdx,
			ColInning:      play.ScalarAt("about", "inning"),
			ColIsTopInning: play.ScalarAt("about", "isTopInning"),
			ColBatterID:    play.ScalarAt("matchup", "batter", "id"),
			ColBatterName:  play.ScalarAt("matchup", "batter", "fullName"),
			ColPitcherID:   play.ScalarAt("matchup", "pitcher", "id"),
			ColPitcherName: play.ScalarAt("matchup", "pitcher", "fullName"),
			ColBalls:       play.ScalarAt("count", "balls"),
			ColStrikes:     play.ScalarAt("count", "strikes"),
			ColOuts:        play.ScalarAt("count", "outs"),
		}

		events, _ := play.Get("playEvents")
		for evIdx, ev := range events.Elems() {
			if !ev.BoolAt(false, "isPitch") {
				continue
			}

			row := ctx.Clone()
			row[ColEventIndex] = evIdx
			row[ColPitchUID] = pitchUID(gamePk, atBatIndex, evIdx)

			// Each block flattens independently with an empty prefix, so the
			// wrapper name itself never enters the key path. Precedence is
			// behaviorally significant: later blocks overwrite keys from
			// earlier ones when normalization makes them collide.
			for _, block := range []string{"details", "pitchData", "hitData"} {
				sub, _ := ev.Get(block)
				for k, v := range flatten.Flatten(sub, "") {
					row[k] = v
				}
			}

			rows = append(rows, row)
		}
	}

	return rows
}

func pitchUID(gamePk int64, atBatIndex any, eventIdx int) string {
	return strconv.FormatInt(gamePk, 10) + "-" + jsontree.FormatScalar(atBatIndex) + "-" + strconv.Itoa(eventIdx)
}
