// Package cleanup removes offers whose end time has passed. It is the
// only code path that deletes offers; the sync pipeline never does.
package cleanup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"offersync/internal/domain/entity"
	"offersync/internal/observability/metrics"
	"offersync/internal/repository"
)

type Service struct {
	OfferRepo repository.OfferRepository

	// Now is the clock used for expiry checks. Overridable in tests.
	Now func() time.Time
}

func NewService(offerRepo repository.OfferRepository) Service {
	return Service{
		OfferRepo: offerRepo,
		Now:       time.Now,
	}
}

// CleanupStats contains statistics about one cleanup run.
type CleanupStats struct {
	Scanned  int
	Removed  int
	Skipped  int
	Duration time.Duration
}

// RunCleanup deletes every stored offer whose end time is strictly
// before now. Offers whose end time cannot be parsed are kept; an
// unreadable date is not proof of expiry. A delete failure aborts the
// run, leaving the remaining expired offers for the next scheduled run.
func (s *Service) RunCleanup(ctx context.Context) (*CleanupStats, error) {
	start := time.Now()

	offers, err := s.OfferRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	now := s.now()
	stats := &CleanupStats{Scanned: len(offers)}
	kept := map[string]int{entity.DealTypeCoupons: 0, entity.DealTypeDeals: 0}

	for _, offer := range offers {
		endsAt, err := offer.EndsAt()
		if err != nil {
			slog.Warn("keeping offer with unreadable end time",
				slog.String("offer_id", offer.ID),
				slog.String("end_time", offer.EndTime))
			stats.Skipped++
			kept[offer.DealType]++
			continue
		}
		if !endsAt.Before(now) {
			kept[offer.DealType]++
			continue
		}

		if err := s.OfferRepo.Delete(ctx, offer.ID); err != nil {
			return stats, fmt.Errorf("delete offer %s: %w", offer.ID, err)
		}
		stats.Removed++
	}

	// Gauge snapshot only after a complete run; an aborted run leaves
	// the last known totals in place.
	for dealType, count := range kept {
		metrics.UpdateOffersTotal(dealType, count)
	}

	stats.Duration = time.Since(start)
	return stats, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
