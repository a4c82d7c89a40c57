package repository

import (
	"context"

	"offersync/internal/domain/entity"
)

// OfferRepository is the persistence contract for the offer collection.
// The sync and cleanup pipelines only need List, UpsertMany and Delete;
// the remaining reads serve the public API. Implementations must make a
// single UpsertMany or Delete call atomic, but no transaction is required
// across calls: partial application of a run is an accepted risk, the next
// scheduled run converges.
type OfferRepository interface {
	List(ctx context.Context) ([]*entity.Offer, error)
	ListByMerchant(ctx context.Context, merchant string) ([]*entity.Offer, error)
	ListByDealType(ctx context.Context, dealType string) ([]*entity.Offer, error)
	// Get returns (nil, nil) when no offer with the given id exists.
	Get(ctx context.Context, id string) (*entity.Offer, error)
	// UpsertMany inserts new offers and fully replaces existing rows with
	// the same id. Both the add and update sets of a sync run go through
	// this method; the store does not distinguish the two.
	UpsertMany(ctx context.Context, offers []*entity.Offer) error
	Delete(ctx context.Context, id string) error
	CountOffers(ctx context.Context) (int64, error)
}
