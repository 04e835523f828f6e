package usecase

import (
	"context"

	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	"github.com/statsloop/pitchdash/internal/platform/jsontree"
)

// Person is a player bio as served by the upstream stats provider.
type Person struct {
	ID            int64  `json:"id"`
	FullName      string `json:"fullName"`
	PrimaryNumber string `json:"primaryNumber"`
	CurrentAge    int    `json:"currentAge"`
	Height        string `json:"height"`
	Weight        int    `json:"weight"`
	PitchHand     string `json:"pitchHand"`
	Position      string `json:"position"`
	CurrentTeam   string `json:"currentTeam"`
	BirthCity     string `json:"birthCity"`
	BirthCountry  string `json:"birthCountry"`
	MLBDebutDate  string `json:"mlbDebutDate"`
	HeadshotURL   string `json:"headshotUrl"`
	Active        bool   `json:"active"`
}

// GameScheduleProvider lists game pks scheduled on a date (YYYY-MM-DD).
type GameScheduleProvider interface {
	GamePksByDate(ctx context.Context, date string) ([]int64, []rawfeed.Payload, error)
}

// GameFeedProvider fetches one game's live feed document.
type GameFeedProvider interface {
	LiveFeed(ctx context.Context, gamePk int64) (jsontree.Node, rawfeed.Payload, error)
}

// PersonProvider fetches a player bio by upstream id.
type PersonProvider interface {
	PersonByID(ctx context.Context, personID int64) (Person, rawfeed.Payload, error)
}
