// Package offer provides read use cases over the stored offer set.
// Writes go through the sync and cleanup pipelines; this package only
// serves queries for the HTTP API.
package offer

import "errors"

// Sentinel errors for offer use case operations.
var (
	// ErrOfferNotFound indicates that the requested offer was not found.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrInvalidOfferID indicates that the provided offer ID is invalid.
	// Offer IDs are upstream-assigned and must be non-empty.
	ErrInvalidOfferID = errors.New("invalid offer ID")

	// ErrInvalidMerchant indicates that the provided merchant name is empty.
	ErrInvalidMerchant = errors.New("invalid merchant")

	// ErrInvalidDealType indicates an unknown deal type was requested.
	// The only valid deal types are "deals" and "coupons".
	ErrInvalidDealType = errors.New("invalid deal type")
)
