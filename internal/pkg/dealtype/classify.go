// Package dealtype derives the two-valued deal classification for offers.
// An offer is a "deal" when any coupon promises a high discount value, any
// coupon demands a high minimum order, or the offer is close to expiry;
// otherwise it is a plain "coupon" offer. Classification is a pure function
// of the offer contents and an explicit reference time.
package dealtype

import (
	"math"
	"regexp"
	"strings"
	"time"

	"offersync/internal/domain/entity"
)

const (
	// highValueThreshold is the minimum discount value (VND) that marks an
	// offer as a deal.
	highValueThreshold = 100_000

	// minOrderThreshold is the minimum-order amount (VND) that marks an
	// offer as a deal.
	minOrderThreshold = 1_000_000

	// nearExpiryDays marks offers expiring within this many days as deals.
	// Already-expired offers satisfy this too; active-only queries filter
	// them out downstream, not the classifier.
	nearExpiryDays = 10
)

// Coupon descriptions are matched after lower-casing, e.g.
// "giảm 50% -tối đa 200,000 vnđ cho đơn tối thiểu 1,000,000 vnđ".
var (
	discountPattern = regexp.MustCompile(`giảm\s+(\d+(?:[.,]\d+)*%?)\s*(?:-tối đa\s+(\d+(?:[.,]\d+)*)\s*vnđ)?`)
	minOrderPattern = regexp.MustCompile(`cho đơn tối thiểu\s+(\d+(?:[.,]\d+)*)\s*vnđ`)
)

// Classify returns the deal type for the given offer at the given reference
// time. The reference time is explicit so the decision stays deterministic
// under test.
func Classify(offer *entity.Offer, now time.Time) string {
	if hasHighValueCoupon(offer.Coupons) || hasHighMinOrder(offer.Coupons) || nearExpiry(offer, now) {
		return entity.DealTypeDeals
	}
	return entity.DealTypeCoupons
}

// hasHighValueCoupon reports whether any coupon advertises a discount worth
// at least highValueThreshold. A percentage discount only counts when a cap
// amount is present; the cap is then the test value. A percentage without a
// cap contributes no evidence.
func hasHighValueCoupon(coupons []entity.Coupon) bool {
	for _, c := range coupons {
		m := discountPattern.FindStringSubmatch(strings.ToLower(c.Description))
		if m == nil {
			continue
		}
		amount, capAmount := m[1], m[2]
		if strings.HasSuffix(amount, "%") {
			if capAmount == "" {
				continue
			}
			if v, ok := ParseAmount(capAmount); ok && v >= highValueThreshold {
				return true
			}
			continue
		}
		if v, ok := ParseAmount(amount); ok && v >= highValueThreshold {
			return true
		}
	}
	return false
}

// hasHighMinOrder reports whether any coupon demands a minimum order of at
// least minOrderThreshold.
func hasHighMinOrder(coupons []entity.Coupon) bool {
	for _, c := range coupons {
		m := minOrderPattern.FindStringSubmatch(strings.ToLower(c.Description))
		if m == nil {
			continue
		}
		if v, ok := ParseAmount(m[1]); ok && v >= minOrderThreshold {
			return true
		}
	}
	return false
}

// nearExpiry reports whether the offer ends within nearExpiryDays of now.
// Days remaining are rounded up, so an offer expiring later today counts as
// one day. An unparseable end time is no evidence.
func nearExpiry(offer *entity.Offer, now time.Time) bool {
	endsAt, err := offer.EndsAt()
	if err != nil {
		return false
	}
	daysLeft := math.Ceil(endsAt.Sub(now).Hours() / 24)
	return daysLeft <= nearExpiryDays
}
