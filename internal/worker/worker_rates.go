package worker

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// RateReader answers hourly-rate lookups for payroll. Concurrent lookups for
// the same worker set share one query.
type RateReader interface {
	HourlyRates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error)
}

type rateReader struct {
	repo Repository
	sf   *singleflight.Group
}

func NewRateReader(repo Repository) RateReader {
	return &rateReader{repo: repo, sf: &singleflight.Group{}}
}

// HourlyRates returns the configured rate per worker. Workers that do not
// exist are absent from the map.
func (r *rateReader) HourlyRates(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]decimal.Decimal{}, nil
	}

	sorted := make([]string, len(ids))
	for i, id := range ids {
		sorted[i] = id.String()
	}
	sort.Strings(sorted)

	v, err, _ := r.sf.Do("rates:"+strings.Join(sorted, ","), func() (interface{}, error) {
		rows, err := r.repo.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		rates := make(map[uuid.UUID]decimal.Decimal, len(rows))
		for _, w := range rows {
			rates[w.ID] = w.HourlyRate
		}
		return rates, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(map[uuid.UUID]decimal.Decimal), nil
}
