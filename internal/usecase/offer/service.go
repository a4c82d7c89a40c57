package offer

import (
	"context"
	"fmt"
	"time"

	"offersync/internal/domain/entity"
	"offersync/internal/repository"
)

// Service provides offer query use cases.
// It handles read-side business logic and delegates persistence to the repository.
type Service struct {
	Repo repository.OfferRepository

	// Now is the clock used for the active-offer filter. Overridable in tests.
	Now func() time.Time
}

// NewService creates an offer Service backed by the given repository.
func NewService(repo repository.OfferRepository) Service {
	return Service{
		Repo: repo,
		Now:  time.Now,
	}
}

// List retrieves all stored offers.
// Returns an error if the repository operation fails.
func (s *Service) List(ctx context.Context) ([]*entity.Offer, error) {
	offers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}

// Get retrieves a single offer by its upstream-assigned ID.
// Returns ErrInvalidOfferID if the ID is empty.
// Returns ErrOfferNotFound if the offer does not exist.
func (s *Service) Get(ctx context.Context, id string) (*entity.Offer, error) {
	if id == "" {
		return nil, ErrInvalidOfferID
	}

	offer, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get offer: %w", err)
	}
	if offer == nil {
		return nil, ErrOfferNotFound
	}
	return offer, nil
}

// ListByMerchant retrieves all offers belonging to a merchant.
// Returns ErrInvalidMerchant if the merchant name is empty.
func (s *Service) ListByMerchant(ctx context.Context, merchant string) ([]*entity.Offer, error) {
	if merchant == "" {
		return nil, ErrInvalidMerchant
	}

	offers, err := s.Repo.ListByMerchant(ctx, merchant)
	if err != nil {
		return nil, fmt.Errorf("list offers by merchant: %w", err)
	}
	return offers, nil
}

// ListByDealType retrieves all offers classified under the given deal type.
// Returns ErrInvalidDealType for anything other than "deals" or "coupons".
func (s *Service) ListByDealType(ctx context.Context, dealType string) ([]*entity.Offer, error) {
	if !entity.ValidDealType(dealType) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDealType, dealType)
	}

	offers, err := s.Repo.ListByDealType(ctx, dealType)
	if err != nil {
		return nil, fmt.Errorf("list offers by deal type: %w", err)
	}
	return offers, nil
}

// ListActive retrieves offers whose end time is after now. The end time
// column holds the raw upstream string in mixed formats, so the filter
// happens here rather than in SQL. Offers with unreadable end times are
// excluded; an offer that cannot prove it is live is not advertised.
func (s *Service) ListActive(ctx context.Context) ([]*entity.Offer, error) {
	offers, err := s.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}

	now := s.now()
	active := make([]*entity.Offer, 0, len(offers))
	for _, offer := range offers {
		endsAt, err := offer.EndsAt()
		if err != nil {
			continue
		}
		if endsAt.After(now) {
			active = append(active, offer)
		}
	}
	return active, nil
}

// CountOffers returns the total number of stored offers.
func (s *Service) CountOffers(ctx context.Context) (int64, error) {
	total, err := s.Repo.CountOffers(ctx)
	if err != nil {
		return 0, fmt.Errorf("count offers: %w", err)
	}
	return total, nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
