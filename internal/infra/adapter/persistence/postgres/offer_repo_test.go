package postgres_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"offersync/internal/domain/entity"
	"offersync/internal/infra/adapter/persistence/postgres"
)

func offerRow(o *entity.Offer) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "content", "image", "aff_link", "link", "domain",
		"merchant", "start_time", "end_time",
		"categories", "coupons", "banners", "deal_type",
	}).AddRow(
		o.ID, o.Name, o.Content, o.Image, o.AffLink, o.Link, o.Domain,
		o.Merchant, o.StartTime, o.EndTime,
		[]byte(`[]`), []byte(`[{"coupon_code":"SALE50","coupon_desc":"Giảm 50.000 VNĐ"}]`),
		[]byte(`[]`), o.DealType,
	)
}

func sampleOffer() *entity.Offer {
	return &entity.Offer{
		ID:         "shopee_1",
		Name:       "Shopee Sale",
		Merchant:   "shopee",
		Domain:     "shopee.vn",
		StartTime:  "2025-06-01 00:00:00",
		EndTime:    "2025-06-30 23:59:59",
		Categories: []entity.Category{},
		Coupons:    []entity.Coupon{{Code: "SALE50", Description: "Giảm 50.000 VNĐ"}},
		Banners:    nil,
		DealType:   entity.DealTypeCoupons,
	}
}

func TestOfferRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	want := sampleOffer()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs("shopee_1").
		WillReturnRows(offerRow(want))

	repo := postgres.NewOfferRepo(db)
	got, err := repo.Get(context.Background(), "shopee_1")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	// Banners round-trip through an empty JSON array.
	want.Banners = []json.RawMessage{}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOfferRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id`)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	repo := postgres.NewOfferRepo(db)
	got, err := repo.Get(context.Background(), "missing")
	if err != nil || got != nil {
		t.Fatalf("Get err=%v got=%v, want nil,nil", err, got)
	}
}

func TestOfferRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM offers`).
		WillReturnRows(offerRow(sampleOffer()))

	repo := postgres.NewOfferRepo(db)
	got, err := repo.List(context.Background())
	if err != nil || len(got) != 1 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
	if got[0].Coupons[0].Code != "SALE50" {
		t.Fatalf("coupons not unmarshalled: %+v", got[0].Coupons)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOfferRepo_ListByMerchant(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`WHERE merchant`).
		WithArgs("shopee").
		WillReturnRows(offerRow(sampleOffer()))

	repo := postgres.NewOfferRepo(db)
	got, err := repo.ListByMerchant(context.Background(), "shopee")
	if err != nil || len(got) != 1 {
		t.Fatalf("ListByMerchant err=%v len=%d", err, len(got))
	}
}

func TestOfferRepo_ListByDealType(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`WHERE deal_type`).
		WithArgs(entity.DealTypeDeals).
		WillReturnRows(offerRow(sampleOffer()))

	repo := postgres.NewOfferRepo(db)
	got, err := repo.ListByDealType(context.Background(), entity.DealTypeDeals)
	if err != nil || len(got) != 1 {
		t.Fatalf("ListByDealType err=%v len=%d", err, len(got))
	}
}

func TestOfferRepo_UpsertMany(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO offers`))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO offers`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO offers`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	a := sampleOffer()
	b := sampleOffer()
	b.ID = "shopee_2"

	repo := postgres.NewOfferRepo(db)
	if err := repo.UpsertMany(context.Background(), []*entity.Offer{a, b}); err != nil {
		t.Fatalf("UpsertMany err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOfferRepo_UpsertMany_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	// No SQL expected for an empty batch.
	repo := postgres.NewOfferRepo(db)
	if err := repo.UpsertMany(context.Background(), nil); err != nil {
		t.Fatalf("UpsertMany err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOfferRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM offers`)).
		WithArgs("shopee_1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewOfferRepo(db)
	if err := repo.Delete(context.Background(), "shopee_1"); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestOfferRepo_CountOffers(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM offers`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))

	repo := postgres.NewOfferRepo(db)
	got, err := repo.CountOffers(context.Background())
	if err != nil || got != 42 {
		t.Fatalf("CountOffers err=%v got=%d", err, got)
	}
}
