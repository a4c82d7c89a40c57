package fixtures_test

import (
	"encoding/json"
	"strings"
	"testing"

	"offersync/internal/domain/entity"
	"offersync/tests/fixtures"
)

func decode(t *testing.T, payload []byte) []*entity.Offer {
	t.Helper()
	var envelope struct {
		Data []*entity.Offer `json:"data"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		t.Fatalf("generated payload does not decode: %v", err)
	}
	return envelope.Data
}

func TestGenerateFeedPayload(t *testing.T) {
	offers := decode(t, fixtures.GenerateFeedPayload(25))

	if len(offers) != 25 {
		t.Fatalf("offers = %d, want 25", len(offers))
	}
	seen := make(map[string]bool, len(offers))
	for _, offer := range offers {
		if err := offer.Validate(); err != nil {
			t.Errorf("offer %q invalid: %v", offer.ID, err)
		}
		if seen[offer.ID] {
			t.Errorf("duplicate id %q", offer.ID)
		}
		seen[offer.ID] = true
		if _, err := offer.EndsAt(); err != nil {
			t.Errorf("offer %q end time unparseable: %v", offer.ID, err)
		}
	}
}

func TestGenerateOfferPayload(t *testing.T) {
	offers := decode(t, fixtures.GenerateOfferPayload(fixtures.OfferOptions{
		ID:          "tiki_99",
		Merchant:    "tiki",
		CouponCodes: []string{"TIKI50"},
		DiscountVND: 50000,
	}))

	if len(offers) != 1 {
		t.Fatalf("offers = %d, want 1", len(offers))
	}
	offer := offers[0]
	if offer.Merchant != "tiki" || offer.Domain != "tiki.vn" {
		t.Errorf("merchant = %q domain = %q", offer.Merchant, offer.Domain)
	}
	if got := offer.CouponCodes(); len(got) != 1 || got[0] != "TIKI50" {
		t.Errorf("coupon codes = %v", got)
	}
	if !strings.Contains(offer.Coupons[0].Description, "giảm 50K") {
		t.Errorf("description = %q, want embedded discount phrase", offer.Coupons[0].Description)
	}
}
