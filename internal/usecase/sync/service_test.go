package sync_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"offersync/internal/domain/entity"
	syncUC "offersync/internal/usecase/sync"
)

// reference time for deterministic classification
var refTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

func farFuture() string {
	return refTime.AddDate(0, 6, 0).Format("2006-01-02 15:04:05")
}

// stubFetcher is a mock implementation of sync.OfferFetcher
type stubFetcher struct {
	offers   []*entity.Offer
	fetchErr error
}

func (s *stubFetcher) FetchOffers(_ context.Context) ([]*entity.Offer, error) {
	return s.offers, s.fetchErr
}

// stubOfferRepo is a mock implementation of repository.OfferRepository
type stubOfferRepo struct {
	offers    []*entity.Offer
	listErr   error
	upsertErr error
	upserts   [][]*entity.Offer
	deleted   []string
	deleteErr error
}

func (s *stubOfferRepo) List(_ context.Context) ([]*entity.Offer, error) {
	return s.offers, s.listErr
}

func (s *stubOfferRepo) UpsertMany(_ context.Context, offers []*entity.Offer) error {
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.upserts = append(s.upserts, offers)
	return nil
}

func (s *stubOfferRepo) Delete(_ context.Context, id string) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, id)
	return nil
}

// The following are unused by the sync pipeline but satisfy the interface.
func (s *stubOfferRepo) ListByMerchant(_ context.Context, _ string) ([]*entity.Offer, error) {
	return nil, nil
}
func (s *stubOfferRepo) ListByDealType(_ context.Context, _ string) ([]*entity.Offer, error) {
	return nil, nil
}
func (s *stubOfferRepo) Get(_ context.Context, _ string) (*entity.Offer, error) {
	return nil, nil
}
func (s *stubOfferRepo) CountOffers(_ context.Context) (int64, error) {
	return int64(len(s.offers)), nil
}

func newService(repo *stubOfferRepo, fetcher *stubFetcher) syncUC.Service {
	svc := syncUC.NewService(repo, fetcher)
	svc.Now = func() time.Time { return refTime }
	return svc
}

func storedOffer(id, merchant, endTime string, codes ...string) *entity.Offer {
	coupons := make([]entity.Coupon, len(codes))
	for i, code := range codes {
		coupons[i] = entity.Coupon{Code: code, Description: "mã " + code}
	}
	return &entity.Offer{ID: id, Merchant: merchant, EndTime: endTime, Coupons: coupons}
}

func TestRunSync_AddsNewOffers(t *testing.T) {
	existing := storedOffer("A", "shopee", farFuture(), "C1")
	repo := &stubOfferRepo{offers: []*entity.Offer{existing}}
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("A", "shopee", farFuture(), "C1"),
		storedOffer("B", "lazada", farFuture(), "C2"),
	}}

	svc := newService(repo, fetcher)
	stats, err := svc.RunSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.Added)
	assert.Equal(t, 0, stats.Updated)
	assert.Equal(t, 1, stats.Unchanged)

	require.Len(t, repo.upserts, 1)
	require.Len(t, repo.upserts[0], 1)
	assert.Equal(t, "B", repo.upserts[0][0].ID)
}

func TestRunSync_UpdatesOnMerchantChange(t *testing.T) {
	repo := &stubOfferRepo{offers: []*entity.Offer{
		storedOffer("A", "shopee", farFuture(), "C1"),
	}}
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("A", "lazada", farFuture(), "C1"),
	}}

	svc := newService(repo, fetcher)
	stats, err := svc.RunSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, stats.Added)
	assert.Equal(t, 1, stats.Updated)
	require.Len(t, repo.upserts, 1)
	assert.Equal(t, "A", repo.upserts[0][0].ID)
	assert.Equal(t, "lazada", repo.upserts[0][0].Merchant)
}

func TestRunSync_ZeroChangeRunWritesNothing(t *testing.T) {
	repo := &stubOfferRepo{offers: []*entity.Offer{
		storedOffer("A", "shopee", farFuture(), "C1", "C2"),
	}}
	// Same offer, coupon order permuted: still a no-op.
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("A", "shopee", farFuture(), "C2", "C1"),
	}}

	svc := newService(repo, fetcher)
	stats, err := svc.RunSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Unchanged)
	assert.Empty(t, repo.upserts)
}

func TestRunSync_StampsDealType(t *testing.T) {
	repo := &stubOfferRepo{}
	soon := refTime.Add(3 * 24 * time.Hour).Format("2006-01-02 15:04:05")
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("urgent", "shopee", soon, "C1"),
		storedOffer("plain", "shopee", farFuture(), "C2"),
	}}

	svc := newService(repo, fetcher)
	_, err := svc.RunSync(context.Background())
	require.NoError(t, err)

	require.Len(t, repo.upserts, 1)
	byID := map[string]*entity.Offer{}
	for _, o := range repo.upserts[0] {
		byID[o.ID] = o
	}
	assert.Equal(t, entity.DealTypeDeals, byID["urgent"].DealType)
	assert.Equal(t, entity.DealTypeCoupons, byID["plain"].DealType)
}

func TestRunSync_AbsentUpstreamOffersLeftUntouched(t *testing.T) {
	repo := &stubOfferRepo{offers: []*entity.Offer{
		storedOffer("gone", "shopee", farFuture(), "C1"),
	}}
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("new", "lazada", farFuture(), "C2"),
	}}

	svc := newService(repo, fetcher)
	stats, err := svc.RunSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, stats.Added)
	assert.Empty(t, repo.deleted, "sync must never delete offers")
}

func TestRunSync_SkipsInvalidOffers(t *testing.T) {
	repo := &stubOfferRepo{}
	fetcher := &stubFetcher{offers: []*entity.Offer{
		{Merchant: "shopee"}, // missing id
		storedOffer("ok", "shopee", farFuture(), "C1"),
	}}

	svc := newService(repo, fetcher)
	stats, err := svc.RunSync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Fetched)
	assert.Equal(t, 1, stats.Added)
}

func TestRunSync_FetchFailureAbortsRun(t *testing.T) {
	repo := &stubOfferRepo{}
	fetcher := &stubFetcher{
		fetchErr: fmt.Errorf("%w: status 503", syncUC.ErrUpstreamUnavailable),
	}

	svc := newService(repo, fetcher)
	_, err := svc.RunSync(context.Background())

	assert.ErrorIs(t, err, syncUC.ErrSyncFailed)
	assert.ErrorIs(t, err, syncUC.ErrUpstreamUnavailable)
	assert.Empty(t, repo.upserts, "no partial state may be committed")
}

func TestRunSync_ListFailureAbortsRun(t *testing.T) {
	repo := &stubOfferRepo{listErr: errors.New("connection refused")}
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("A", "shopee", farFuture(), "C1"),
	}}

	svc := newService(repo, fetcher)
	_, err := svc.RunSync(context.Background())

	assert.ErrorIs(t, err, syncUC.ErrSyncFailed)
	assert.ErrorIs(t, err, syncUC.ErrStoreUnavailable)
}

func TestRunSync_UpsertFailureSurfaces(t *testing.T) {
	repo := &stubOfferRepo{upsertErr: errors.New("deadlock detected")}
	fetcher := &stubFetcher{offers: []*entity.Offer{
		storedOffer("A", "shopee", farFuture(), "C1"),
	}}

	svc := newService(repo, fetcher)
	_, err := svc.RunSync(context.Background())

	assert.ErrorIs(t, err, syncUC.ErrSyncFailed)
	assert.ErrorIs(t, err, syncUC.ErrStoreUnavailable)
}
