package rawfeed

import "time"

const (
	SourceStatsAPI = "mlb-statsapi"

	EntitySchedule = "schedule"
	EntityLiveFeed = "live_feed"
	EntityPerson   = "person"
)

// Payload is one raw provider response kept for replay and audit.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	GamePk      int64
	Date        string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
