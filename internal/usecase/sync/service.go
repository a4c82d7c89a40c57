package sync

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"offersync/internal/domain/entity"
	"offersync/internal/observability/metrics"
	"offersync/internal/pkg/dealtype"
	"offersync/internal/repository"
)

// OfferFetcher is the contract for retrieving the current offer set from
// the upstream affiliate API. The returned sequence is the authoritative
// upstream state for one run; adapters must fully drain any pagination
// before returning. Failures wrap ErrUpstreamUnavailable or
// ErrUpstreamFormat.
type OfferFetcher interface {
	FetchOffers(ctx context.Context) ([]*entity.Offer, error)
}

// Service orchestrates one reconciliation run. It owns no state across
// runs: every run re-reads the full stored offer set.
type Service struct {
	OfferRepo repository.OfferRepository
	Fetcher   OfferFetcher

	// Now is the clock used for classification. Overridable in tests.
	Now func() time.Time
}

// NewService creates a sync Service with the provided dependencies.
func NewService(offerRepo repository.OfferRepository, fetcher OfferFetcher) Service {
	return Service{
		OfferRepo: offerRepo,
		Fetcher:   fetcher,
		Now:       time.Now,
	}
}

// SyncStats contains statistics about one reconciliation run.
type SyncStats struct {
	Fetched   int
	Added     int
	Updated   int
	Unchanged int
	Duration  time.Duration
}

// RunSync executes one reconciliation pass:
//  1. Fetch the current upstream offers; abort the run on failure.
//  2. Load all stored offers and index them by id.
//  3. Classify every incoming offer, then partition into add / update /
//     no-op sets using the change detector.
//  4. Persist the add and update sets via upsert.
//
// Offers present in the store but absent upstream are left untouched;
// removal is the expiry cleanup's job. A zero-change run is a normal,
// successful outcome. On failure nothing further is applied and the next
// scheduled run is the de facto retry.
func (s *Service) RunSync(ctx context.Context) (*SyncStats, error) {
	start := time.Now()

	incoming, err := s.Fetcher.FetchOffers(ctx)
	metrics.RecordUpstreamFetch(err == nil, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch offers: %w", ErrSyncFailed, err)
	}

	existing, err := s.OfferRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list offers: %w", ErrSyncFailed, fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}

	byID := make(map[string]*entity.Offer, len(existing))
	for _, offer := range existing {
		byID[offer.ID] = offer
	}

	now := s.now()
	stats := &SyncStats{Fetched: len(incoming)}
	var adds, updates []*entity.Offer

	for _, offer := range incoming {
		if err := offer.Validate(); err != nil {
			slog.Warn("skipping invalid upstream offer", slog.Any("error", err))
			continue
		}

		// The deal type is always recomputed locally, never trusted
		// from the upstream payload.
		offer.DealType = dealtype.Classify(offer, now)

		current, ok := byID[offer.ID]
		switch {
		case !ok:
			adds = append(adds, offer)
		case OfferChanged(current, offer):
			updates = append(updates, offer)
		default:
			stats.Unchanged++
		}
	}

	if len(adds) > 0 {
		if err := s.OfferRepo.UpsertMany(ctx, adds); err != nil {
			return nil, fmt.Errorf("%w: save new offers: %w", ErrSyncFailed, fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
		}
	}
	if len(updates) > 0 {
		if err := s.OfferRepo.UpsertMany(ctx, updates); err != nil {
			return nil, fmt.Errorf("%w: update changed offers: %w", ErrSyncFailed, fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
		}
	}

	// Snapshot the post-run deal type distribution for the gauges.
	for _, offer := range adds {
		byID[offer.ID] = offer
	}
	for _, offer := range updates {
		byID[offer.ID] = offer
	}
	totals := map[string]int{entity.DealTypeCoupons: 0, entity.DealTypeDeals: 0}
	for _, offer := range byID {
		totals[offer.DealType]++
	}
	for dealType, count := range totals {
		metrics.UpdateOffersTotal(dealType, count)
	}

	stats.Added = len(adds)
	stats.Updated = len(updates)
	stats.Duration = time.Since(start)
	return stats, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
