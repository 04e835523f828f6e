package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/statsloop/pitchdash/internal/domain/rawfeed"
	"github.com/statsloop/pitchdash/internal/platform/cache"
	"github.com/statsloop/pitchdash/internal/platform/logging"
)

const (
	bioCachePrefix = "bio:"
	bioCacheTTL    = 24 * time.Hour
)

// BioService serves player bios from the upstream provider with a daily
// cache; bios change rarely so staleness is acceptable.
type BioService struct {
	people   PersonProvider
	rawFeeds rawfeed.Repository
	cache    *cache.Store
	logger   *logging.Logger
}

func NewBioService(people PersonProvider, rawFeeds rawfeed.Repository, store *cache.Store, logger *logging.Logger) *BioService {
	if logger == nil {
		logger = logging.Default()
	}
	return &BioService{people: people, rawFeeds: rawFeeds, cache: store, logger: logger}
}

func (s *BioService) PersonByID(ctx context.Context, personID int64) (Person, error) {
	ctx, span := startUsecaseSpan(ctx, "BioService.PersonByID")
	defer span.End()

	if personID <= 0 {
		return Person{}, fmt.Errorf("%w: person id must be greater than zero", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		person, payload, err := s.people.PersonByID(ctx, personID)
		if err != nil {
			return nil, err
		}
		if s.rawFeeds != nil {
			if err := s.rawFeeds.UpsertMany(ctx, []rawfeed.Payload{payload}); err != nil {
				s.logger.WarnContext(ctx, "person payload archive failed", "person_id", personID, "error", err)
			}
		}
		return person, nil
	}

	if s.cache == nil {
		out, err := load(ctx)
		if err != nil {
			return Person{}, err
		}
		return out.(Person), nil
	}

	key := bioCachePrefix + strconv.FormatInt(personID, 10)
	out, err := s.cache.GetOrLoadUntil(ctx, key, time.Now().Add(bioCacheTTL), load)
	if err != nil {
		return Person{}, err
	}
	person, ok := out.(Person)
	if !ok {
		return Person{}, fmt.Errorf("unexpected cache payload type %T", out)
	}
	return person, nil
}
