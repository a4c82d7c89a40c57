package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"offersync/internal/domain/entity"
	"offersync/internal/observability/metrics"
	"offersync/internal/repository"
)

type OfferRepo struct{ db *sql.DB }

func NewOfferRepo(db *sql.DB) repository.OfferRepository {
	return &OfferRepo{db: db}
}

// timeQuery feeds the db_query_duration histogram. Call as
// defer timeQuery("list")() at the top of a repository method.
func timeQuery(operation string) func() {
	start := time.Now()
	return func() { metrics.RecordDBQuery(operation, time.Since(start)) }
}

const offerColumns = `id, name, content, image, aff_link, link, domain, merchant, start_time, end_time, categories, coupons, banners, deal_type`

// scanOffer scans a full offer row including the JSONB columns.
func scanOffer(rows *sql.Rows) (*entity.Offer, error) {
	var offer entity.Offer
	var categoriesJSON, couponsJSON, bannersJSON []byte
	if err := rows.Scan(
		&offer.ID, &offer.Name, &offer.Content, &offer.Image,
		&offer.AffLink, &offer.Link, &offer.Domain, &offer.Merchant,
		&offer.StartTime, &offer.EndTime,
		&categoriesJSON, &couponsJSON, &bannersJSON, &offer.DealType,
	); err != nil {
		return nil, err
	}
	if err := unmarshalOfferJSON(&offer, categoriesJSON, couponsJSON, bannersJSON); err != nil {
		return nil, err
	}
	return &offer, nil
}

func unmarshalOfferJSON(offer *entity.Offer, categoriesJSON, couponsJSON, bannersJSON []byte) error {
	if len(categoriesJSON) > 0 {
		if err := json.Unmarshal(categoriesJSON, &offer.Categories); err != nil {
			return fmt.Errorf("unmarshal categories: %w", err)
		}
	}
	if len(couponsJSON) > 0 {
		if err := json.Unmarshal(couponsJSON, &offer.Coupons); err != nil {
			return fmt.Errorf("unmarshal coupons: %w", err)
		}
	}
	if len(bannersJSON) > 0 {
		if err := json.Unmarshal(bannersJSON, &offer.Banners); err != nil {
			return fmt.Errorf("unmarshal banners: %w", err)
		}
	}
	return nil
}

func marshalOfferJSON(offer *entity.Offer) (categories, coupons, banners []byte, err error) {
	if categories, err = json.Marshal(offer.Categories); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal categories: %w", err)
	}
	if coupons, err = json.Marshal(offer.Coupons); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal coupons: %w", err)
	}
	if banners, err = json.Marshal(offer.Banners); err != nil {
		return nil, nil, nil, fmt.Errorf("marshal banners: %w", err)
	}
	return categories, coupons, banners, nil
}

func (repo *OfferRepo) List(ctx context.Context) ([]*entity.Offer, error) {
	defer timeQuery("list")()
	const query = `
SELECT ` + offerColumns + `
FROM offers
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := make([]*entity.Offer, 0, 100)
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func (repo *OfferRepo) ListByMerchant(ctx context.Context, merchant string) ([]*entity.Offer, error) {
	defer timeQuery("list_by_merchant")()
	const query = `
SELECT ` + offerColumns + `
FROM offers
WHERE merchant = $1
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, merchant)
	if err != nil {
		return nil, fmt.Errorf("ListByMerchant: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := make([]*entity.Offer, 0, 50)
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByMerchant: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func (repo *OfferRepo) ListByDealType(ctx context.Context, dealType string) ([]*entity.Offer, error) {
	defer timeQuery("list_by_deal_type")()
	const query = `
SELECT ` + offerColumns + `
FROM offers
WHERE deal_type = $1
ORDER BY id ASC`
	rows, err := repo.db.QueryContext(ctx, query, dealType)
	if err != nil {
		return nil, fmt.Errorf("ListByDealType: %w", err)
	}
	defer func() { _ = rows.Close() }()

	offers := make([]*entity.Offer, 0, 50)
	for rows.Next() {
		offer, err := scanOffer(rows)
		if err != nil {
			return nil, fmt.Errorf("ListByDealType: %w", err)
		}
		offers = append(offers, offer)
	}
	return offers, rows.Err()
}

func (repo *OfferRepo) Get(ctx context.Context, id string) (*entity.Offer, error) {
	defer timeQuery("get")()
	const query = `
SELECT ` + offerColumns + `
FROM offers
WHERE id = $1
LIMIT 1`
	var offer entity.Offer
	var categoriesJSON, couponsJSON, bannersJSON []byte
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&offer.ID, &offer.Name, &offer.Content, &offer.Image,
		&offer.AffLink, &offer.Link, &offer.Domain, &offer.Merchant,
		&offer.StartTime, &offer.EndTime,
		&categoriesJSON, &couponsJSON, &bannersJSON, &offer.DealType,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	if err := unmarshalOfferJSON(&offer, categoriesJSON, couponsJSON, bannersJSON); err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &offer, nil
}

// UpsertMany writes the given offers in a single transaction so one gateway
// call is atomic. Existing rows with the same id are fully replaced.
func (repo *OfferRepo) UpsertMany(ctx context.Context, offers []*entity.Offer) error {
	if len(offers) == 0 {
		return nil
	}
	defer timeQuery("upsert_many")()

	const query = `
INSERT INTO offers (` + offerColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
ON CONFLICT (id) DO UPDATE SET
    name       = EXCLUDED.name,
    content    = EXCLUDED.content,
    image      = EXCLUDED.image,
    aff_link   = EXCLUDED.aff_link,
    link       = EXCLUDED.link,
    domain     = EXCLUDED.domain,
    merchant   = EXCLUDED.merchant,
    start_time = EXCLUDED.start_time,
    end_time   = EXCLUDED.end_time,
    categories = EXCLUDED.categories,
    coupons    = EXCLUDED.coupons,
    banners    = EXCLUDED.banners,
    deal_type  = EXCLUDED.deal_type`

	tx, err := repo.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("UpsertMany: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("UpsertMany: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, offer := range offers {
		categoriesJSON, couponsJSON, bannersJSON, err := marshalOfferJSON(offer)
		if err != nil {
			return fmt.Errorf("UpsertMany: %w", err)
		}
		if _, err := stmt.ExecContext(ctx,
			offer.ID, offer.Name, offer.Content, offer.Image,
			offer.AffLink, offer.Link, offer.Domain, offer.Merchant,
			offer.StartTime, offer.EndTime,
			categoriesJSON, couponsJSON, bannersJSON, offer.DealType,
		); err != nil {
			return fmt.Errorf("UpsertMany: exec id=%s: %w", offer.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("UpsertMany: commit: %w", err)
	}
	return nil
}

func (repo *OfferRepo) Delete(ctx context.Context, id string) error {
	defer timeQuery("delete")()
	const query = `DELETE FROM offers WHERE id = $1`
	if _, err := repo.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	return nil
}

func (repo *OfferRepo) CountOffers(ctx context.Context) (int64, error) {
	defer timeQuery("count")()
	const query = `SELECT COUNT(*) FROM offers`
	var count int64
	if err := repo.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("CountOffers: %w", err)
	}
	return count, nil
}
