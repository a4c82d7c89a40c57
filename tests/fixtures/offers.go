// Package fixtures provides reusable offer generators for tests that
// need realistic feed payloads rather than hand-built entities. The
// generated coupon descriptions mirror the Vietnamese phrasing the
// AccessTrade feed actually emits, so classifier-adjacent tests see
// representative input.
package fixtures

import (
	"encoding/json"
	"fmt"
	"time"
)

// OfferOptions configures a generated feed offer.
type OfferOptions struct {
	// ID is the stable external id. Required.
	ID string

	// Merchant defaults to "shopee".
	Merchant string

	// EndTime is the raw feed end time string. Defaults to 30 days out
	// in the feed's "2006-01-02 15:04:05" layout.
	EndTime string

	// CouponCodes controls how many coupons the offer carries; an empty
	// list produces a coupon-less offer (a pure deal).
	CouponCodes []string

	// DiscountVND, when non-zero, is embedded in each coupon description
	// as a Vietnamese fixed-amount discount phrase.
	DiscountVND int
}

type feedOffer struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Content   string       `json:"content"`
	Image     string       `json:"image"`
	AffLink   string       `json:"aff_link"`
	Link      string       `json:"link"`
	Domain    string       `json:"domain"`
	Merchant  string       `json:"merchant"`
	StartTime string       `json:"start_time"`
	EndTime   string       `json:"end_time"`
	Coupons   []feedCoupon `json:"coupons"`
}

type feedCoupon struct {
	Code        string `json:"coupon_code"`
	Description string `json:"coupon_desc"`
}

func buildOffer(opts OfferOptions) feedOffer {
	merchant := opts.Merchant
	if merchant == "" {
		merchant = "shopee"
	}
	endTime := opts.EndTime
	if endTime == "" {
		endTime = time.Now().AddDate(0, 0, 30).Format("2006-01-02 15:04:05")
	}

	coupons := make([]feedCoupon, 0, len(opts.CouponCodes))
	for _, code := range opts.CouponCodes {
		desc := fmt.Sprintf("Nhập mã %s giảm giá cho đơn hàng", code)
		if opts.DiscountVND > 0 {
			desc = fmt.Sprintf("Nhập mã %s giảm %dK cho đơn từ 200K", code, opts.DiscountVND/1000)
		}
		coupons = append(coupons, feedCoupon{Code: code, Description: desc})
	}

	return feedOffer{
		ID:        opts.ID,
		Name:      fmt.Sprintf("%s khuyến mãi tháng này", merchant),
		Content:   "Ưu đãi độc quyền cho thành viên mới",
		Image:     fmt.Sprintf("https://cdn.example.vn/banners/%s.png", opts.ID),
		AffLink:   fmt.Sprintf("https://go.example.vn/deep_link/%s", opts.ID),
		Link:      fmt.Sprintf("https://%s.vn/campaign/%s", merchant, opts.ID),
		Domain:    merchant + ".vn",
		Merchant:  merchant,
		StartTime: time.Now().AddDate(0, 0, -1).Format("2006-01-02 15:04:05"),
		EndTime:   endTime,
		Coupons:   coupons,
	}
}

// GenerateFeedPayload returns a complete feed response body containing
// n generated offers wrapped in the AccessTrade "data" envelope. Offer
// ids are sequential so tests can address individual entries.
func GenerateFeedPayload(n int) []byte {
	offers := make([]feedOffer, 0, n)
	for i := 0; i < n; i++ {
		offers = append(offers, buildOffer(OfferOptions{
			ID:          fmt.Sprintf("offer_%04d", i),
			CouponCodes: []string{fmt.Sprintf("CODE%04d", i)},
			DiscountVND: 50000,
		}))
	}
	return mustMarshalEnvelope(offers)
}

// GenerateOfferPayload returns a feed response body containing the
// single offer described by opts.
func GenerateOfferPayload(opts OfferOptions) []byte {
	return mustMarshalEnvelope([]feedOffer{buildOffer(opts)})
}

func mustMarshalEnvelope(offers []feedOffer) []byte {
	body, err := json.Marshal(map[string]any{"data": offers})
	if err != nil {
		panic(err)
	}
	return body
}
