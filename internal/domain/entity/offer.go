// Package entity defines the core domain entities for the application.
// It contains the fundamental business objects such as Offer and its nested
// Coupon and Category facts, along with domain-specific errors.
package entity

import (
	"encoding/json"
	"fmt"
	"time"
)

// Deal type values derived by the classifier.
// The upstream feed never supplies a deal type; it is recomputed for every
// fetched offer before comparison or persistence.
const (
	DealTypeDeals   = "deals"
	DealTypeCoupons = "coupons"
)

// ValidDealType reports whether s is a recognized deal type value.
func ValidDealType(s string) bool {
	return s == DealTypeDeals || s == DealTypeCoupons
}

// Category represents a single category fact attached to an offer.
// It is passed through from the feed untouched.
type Category struct {
	Name        string `json:"category_name"`
	DisplayName string `json:"category_name_show"`
	Number      string `json:"category_no"`
}

// Coupon represents a coupon code with its free-text description.
// The description is mined by the classifier for monetary thresholds.
type Coupon struct {
	Code        string `json:"coupon_code"`
	Description string `json:"coupon_desc"`
}

// Offer represents a single promotional campaign record from the affiliate
// feed, identified by a stable external id. JSON tags follow the feed's
// snake_case wire format. DealType is derived locally and deliberately
// excluded from unmarshalling so a value in the upstream payload can never
// leak through.
type Offer struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Content    string            `json:"content"`
	Image      string            `json:"image"`
	AffLink    string            `json:"aff_link"`
	Link       string            `json:"link"`
	Domain     string            `json:"domain"`
	Merchant   string            `json:"merchant"`
	StartTime  string            `json:"start_time"`
	EndTime    string            `json:"end_time"`
	Categories []Category        `json:"categories"`
	Coupons    []Coupon          `json:"coupons"`
	Banners    []json.RawMessage `json:"banners"`
	DealType   string            `json:"-"`
}

// Validate validates the Offer entity fields.
func (o *Offer) Validate() error {
	if o.ID == "" {
		return &ValidationError{Field: "id", Message: "is required"}
	}
	return nil
}

// CouponCodes returns the coupon codes of the offer in feed order.
func (o *Offer) CouponCodes() []string {
	codes := make([]string, len(o.Coupons))
	for i, c := range o.Coupons {
		codes[i] = c.Code
	}
	return codes
}

// feedTimeLayouts are the timestamp layouts the affiliate feed is known to
// emit. Plain "date time" values carry no zone and are interpreted in the
// process-local location, matching how consumers of the feed render them.
var feedTimeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseFeedTime parses a timestamp string in any of the feed's known layouts.
func ParseFeedTime(s string) (time.Time, error) {
	for _, layout := range feedTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparseable feed time %q", ErrInvalidInput, s)
}

// EndsAt parses the offer's EndTime. Offers whose EndTime fails to parse are
// excluded from expiry handling but remain part of the general dataset, so
// callers must treat the error as "unknown", not as fatal.
func (o *Offer) EndsAt() (time.Time, error) {
	return ParseFeedTime(o.EndTime)
}
