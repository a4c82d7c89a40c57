// Package offer provides HTTP handlers for offer-related endpoints.
// It includes handlers for listing, filtering, and fetching individual offers.
package offer

import (
	"encoding/json"

	"offersync/internal/domain/entity"
)

// DTO represents the JSON structure for offer data transfer.
// Unlike the wire format from the affiliate feed, the response carries
// the locally derived deal_type.
type DTO struct {
	ID         string            `json:"id" example:"shopee-sale-123"`
	Name       string            `json:"name" example:"Sale lớn tháng 6"`
	Content    string            `json:"content"`
	Image      string            `json:"image"`
	AffLink    string            `json:"aff_link"`
	Link       string            `json:"link"`
	Domain     string            `json:"domain" example:"shopee.vn"`
	Merchant   string            `json:"merchant" example:"shopee"`
	StartTime  string            `json:"start_time" example:"2025-06-01 00:00:00"`
	EndTime    string            `json:"end_time" example:"2025-06-30 23:59:59"`
	Categories []CategoryDTO     `json:"categories"`
	Coupons    []CouponDTO       `json:"coupons"`
	Banners    []json.RawMessage `json:"banners"`
	DealType   string            `json:"deal_type" example:"deals"`
}

// CategoryDTO represents a single offer category in responses.
type CategoryDTO struct {
	Name        string `json:"category_name"`
	DisplayName string `json:"category_name_show"`
	Number      string `json:"category_no"`
}

// CouponDTO represents a single coupon in responses.
type CouponDTO struct {
	Code        string `json:"coupon_code"`
	Description string `json:"coupon_desc"`
}

func toDTO(o *entity.Offer) DTO {
	categories := make([]CategoryDTO, 0, len(o.Categories))
	for _, c := range o.Categories {
		categories = append(categories, CategoryDTO{
			Name:        c.Name,
			DisplayName: c.DisplayName,
			Number:      c.Number,
		})
	}

	coupons := make([]CouponDTO, 0, len(o.Coupons))
	for _, c := range o.Coupons {
		coupons = append(coupons, CouponDTO{
			Code:        c.Code,
			Description: c.Description,
		})
	}

	return DTO{
		ID:         o.ID,
		Name:       o.Name,
		Content:    o.Content,
		Image:      o.Image,
		AffLink:    o.AffLink,
		Link:       o.Link,
		Domain:     o.Domain,
		Merchant:   o.Merchant,
		StartTime:  o.StartTime,
		EndTime:    o.EndTime,
		Categories: categories,
		Coupons:    coupons,
		Banners:    o.Banners,
		DealType:   o.DealType,
	}
}

func toDTOs(offers []*entity.Offer) []DTO {
	out := make([]DTO, 0, len(offers))
	for _, o := range offers {
		out = append(out, toDTO(o))
	}
	return out
}
