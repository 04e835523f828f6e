package usecase

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/statsloop/pitchdash/internal/domain/pitch"
	"github.com/statsloop/pitchdash/internal/platform/logging"
)

// SummaryService answers the dashboard questions over an assembled dataset:
// who pitched on a date, what did they throw, and how did it move.
type SummaryService struct {
	datasets *DatasetService
	logger   *logging.Logger
}

func NewSummaryService(datasets *DatasetService, logger *logging.Logger) *SummaryService {
	if logger == nil {
		logger = logging.Default()
	}
	return &SummaryService{datasets: datasets, logger: logger}
}

type PitcherRef struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	PitchCount int    `json:"pitch_count"`
}

type PitchTypeSummary struct {
	PitchType string   `json:"pitch_type"`
	Color     string   `json:"color"`
	Count     int      `json:"count"`
	MixPct    float64  `json:"mix_pct"`
	AvgVelo   *float64 `json:"avg_velo"`
	AvgSpin   *float64 `json:"avg_spin"`
	AvgIVB    *float64 `json:"avg_ivb"`
	AvgHB     *float64 `json:"avg_hb"`
	// ReleaseHeight and Extension render as feet-inches, e.g. 5′10″.
	ReleaseHeight string `json:"release_height"`
	Extension     string `json:"extension"`
}

type PitcherSummary struct {
	PitcherID    int64              `json:"pitcher_id"`
	PitcherName  string             `json:"pitcher_name"`
	Date         string             `json:"date"`
	TotalPitches int                `json:"total_pitches"`
	Pitches      []PitchTypeSummary `json:"pitches"`
}

type MovementPoint struct {
	PitchType        string   `json:"pitch_type"`
	Color            string   `json:"color"`
	HorzBreak        float64  `json:"horz_break"`
	InducedVertBreak float64  `json:"induced_vert_break"`
	Velo             *float64 `json:"velo"`
}

// PitchersForDate lists the pitchers who threw at least one pitch on the
// date, most active first.
func (s *SummaryService) PitchersForDate(ctx context.Context, date string) ([]PitcherRef, error) {
	ctx, span := startUsecaseSpan(ctx, "SummaryService.PitchersForDate")
	defer span.End()

	snapshot, err := s.datasets.DatasetForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]*PitcherRef, 16)
	for _, row := range snapshot.Dataset.Rows {
		id, ok := rowInt64(row, pitch.ColPitcherID)
		if !ok {
			continue
		}
		ref := counts[id]
		if ref == nil {
			ref = &PitcherRef{ID: id}
			counts[id] = ref
		}
		if name, ok := row[pitch.ColPitcherName].(string); ok && ref.Name == "" {
			ref.Name = name
		}
		ref.PitchCount++
	}

	out := make([]PitcherRef, 0, len(counts))
	for _, ref := range counts {
		out = append(out, *ref)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PitchCount != out[j].PitchCount {
			return out[i].PitchCount > out[j].PitchCount
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// SummaryForPitcher aggregates one pitcher's outing on a date by pitch type.
func (s *SummaryService) SummaryForPitcher(ctx context.Context, date string, pitcherID int64) (PitcherSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "SummaryService.SummaryForPitcher")
	defer span.End()

	rows, name, err := s.pitcherRows(ctx, date, pitcherID)
	if err != nil {
		return PitcherSummary{}, err
	}

	type bucket struct {
		count int
		velo  meanAcc
		spin  meanAcc
		ivb   meanAcc
		hb    meanAcc
		relHt meanAcc
		ext   meanAcc
	}
	buckets := make(map[string]*bucket, 8)
	for _, row := range rows {
		pitchType := pitch.NormalizePitchName(rowString(row, pitch.ColPitchType))
		b := buckets[pitchType]
		if b == nil {
			b = &bucket{}
			buckets[pitchType] = b
		}
		b.count++
		b.velo.add(rowFloat(row, pitch.ColStartSpeed))
		b.spin.add(rowFloat(row, pitch.ColSpinRate))
		b.ivb.add(rowFloat(row, pitch.ColBreakVertInd))
		b.hb.add(rowFloat(row, pitch.ColBreakHorz))
		b.relHt.add(rowFloat(row, pitch.ColReleaseZ0, pitch.ColReleasePosZ))
		b.ext.add(rowFloat(row, pitch.ColExtension))
	}

	summary := PitcherSummary{
		PitcherID:    pitcherID,
		PitcherName:  name,
		Date:         date,
		TotalPitches: len(rows),
		Pitches:      make([]PitchTypeSummary, 0, len(buckets)),
	}
	for pitchType, b := range buckets {
		summary.Pitches = append(summary.Pitches, PitchTypeSummary{
			PitchType:     pitchType,
			Color:         pitch.PitchColor(pitchType),
			Count:         b.count,
			MixPct:        round1(100 * float64(b.count) / float64(len(rows))),
			AvgVelo:       b.velo.rounded(1),
			AvgSpin:       b.spin.rounded(0),
			AvgIVB:        b.ivb.rounded(1),
			AvgHB:         b.hb.rounded(1),
			ReleaseHeight: feetInches(b.relHt.mean()),
			Extension:     feetInches(b.ext.mean()),
		})
	}
	sort.SliceStable(summary.Pitches, func(i, j int) bool {
		if summary.Pitches[i].Count != summary.Pitches[j].Count {
			return summary.Pitches[i].Count > summary.Pitches[j].Count
		}
		return summary.Pitches[i].PitchType < summary.Pitches[j].PitchType
	})
	return summary, nil
}

// MovementForPitcher returns the pitcher's movement scatter for a date: one
// point per pitch that carries both break measurements.
func (s *SummaryService) MovementForPitcher(ctx context.Context, date string, pitcherID int64) ([]MovementPoint, error) {
	ctx, span := startUsecaseSpan(ctx, "SummaryService.MovementForPitcher")
	defer span.End()

	rows, _, err := s.pitcherRows(ctx, date, pitcherID)
	if err != nil {
		return nil, err
	}

	points := make([]MovementPoint, 0, len(rows))
	for _, row := range rows {
		hb := rowFloat(row, pitch.ColBreakHorz)
		ivb := rowFloat(row, pitch.ColBreakVertInd)
		if hb == nil || ivb == nil {
			continue
		}
		pitchType := pitch.NormalizePitchName(rowString(row, pitch.ColPitchType))
		points = append(points, MovementPoint{
			PitchType:        pitchType,
			Color:            pitch.PitchColor(pitchType),
			HorzBreak:        *hb,
			InducedVertBreak: *ivb,
			Velo:             rowFloat(row, pitch.ColStartSpeed),
		})
	}
	return points, nil
}

func (s *SummaryService) pitcherRows(ctx context.Context, date string, pitcherID int64) ([]pitch.Row, string, error) {
	if pitcherID <= 0 {
		return nil, "", fmt.Errorf("%w: pitcher id must be greater than zero", ErrInvalidInput)
	}

	snapshot, err := s.datasets.DatasetForDate(ctx, date)
	if err != nil {
		return nil, "", err
	}

	name := ""
	rows := snapshot.Dataset.FilterRows(func(row pitch.Row) bool {
		id, ok := rowInt64(row, pitch.ColPitcherID)
		if !ok || id != pitcherID {
			return false
		}
		if name == "" {
			name, _ = row[pitch.ColPitcherName].(string)
		}
		return true
	})
	if len(rows) == 0 {
		return nil, "", fmt.Errorf("%w: pitcher %d has no pitches on %s", ErrNotFound, pitcherID, date)
	}
	return rows, name, nil
}

type meanAcc struct {
	sum float64
	n   int
}

func (m *meanAcc) add(v *float64) {
	if v == nil {
		return
	}
	m.sum += *v
	m.n++
}

func (m *meanAcc) mean() *float64 {
	if m.n == 0 {
		return nil
	}
	v := m.sum / float64(m.n)
	return &v
}

func (m *meanAcc) rounded(decimals int) *float64 {
	v := m.mean()
	if v == nil {
		return nil
	}
	scale := math.Pow(10, float64(decimals))
	r := math.Round(*v*scale) / scale
	return &r
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// feetInches renders a measurement in feet as f′i″, rolling 12 inches into
// the next foot.
func feetInches(v *float64) string {
	if v == nil {
		return ""
	}
	feet := int(*v)
	inches := int(math.Round((*v - float64(feet)) * 12))
	if inches == 12 {
		feet++
		inches = 0
	}
	return fmt.Sprintf("%d′%d″", feet, inches)
}

func rowFloat(row pitch.Row, keys ...string) *float64 {
	for _, key := range keys {
		switch v := row[key].(type) {
		case float64:
			value := v
			return &value
		case int64:
			value := float64(v)
			return &value
		case int:
			value := float64(v)
			return &value
		}
	}
	return nil
}

func rowInt64(row pitch.Row, key string) (int64, bool) {
	switch v := row[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

func rowString(row pitch.Row, key string) string {
	if v, ok := row[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
