package constants

import "time"

const (
	// Booking lock
	BookingLockWait    = 3 * time.Second
	BookingLockRetry   = 100 * time.Millisecond
	BookingLockKeyText = "reservations_office_%s"

	// Pricing
	MonthlyDiscountMinDays = 28

	// Reservation access tokens
	AccessTokenLength = 32

	// Listing pagination
	PageSize = 20
)
