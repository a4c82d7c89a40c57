package sync

import (
	"slices"

	"offersync/internal/domain/entity"
)

// OfferChanged reports whether a re-fetched offer differs from its stored
// snapshot in any of the three facets that warrant a write: the coupon code
// set (order-insensitive), the merchant, and the raw end time string.
// Descriptive fields (name, content, images, deal type) are deliberately
// excluded: the store re-persists the whole row on any change, so the
// comparison is kept narrow to hold write volume down.
func OfferChanged(existing, incoming *entity.Offer) bool {
	if existing.Merchant != incoming.Merchant {
		return true
	}
	if existing.EndTime != incoming.EndTime {
		return true
	}

	existingCodes := existing.CouponCodes()
	incomingCodes := incoming.CouponCodes()
	slices.Sort(existingCodes)
	slices.Sort(incomingCodes)
	return !slices.Equal(existingCodes, incomingCodes)
}
