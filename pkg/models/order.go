package models

// Order is one denormalized row of the order_with_profile view: the order
// joined with its driver's profile. Every column except the id is nullable
// upstream, so everything else is a pointer. Orders are immutable once
// loaded; the loader swaps whole sets, never individual records.
type Order struct {
	ID                   int64    `json:"id"`
	FirstName            *string  `json:"first_name"`
	LastName             *string  `json:"last_name"`
	PhoneNumber          *string  `json:"phone_number"`
	Tonnage              *float64 `json:"tonnage"`
	PickupDate           *string  `json:"pickup_date"`
	PickupTime           *string  `json:"pickup_time"`
	PickupStreetAddress  *string  `json:"pickup_street_address"`
	PickupCity           *string  `json:"pickup_city"`
	PickupState          *string  `json:"pickup_state"`
	PickupZipCode        *string  `json:"pickup_zip_code"`
	DropoffDate          *string  `json:"dropoff_date"`
	DropoffTime          *string  `json:"dropoff_time"`
	DropoffStreetAddress *string  `json:"dropoff_street_address"`
	DropoffCity          *string  `json:"dropoff_city"`
	DropoffState         *string  `json:"dropoff_state"`
	DropoffZipCode       *string  `json:"dropoff_zip_code"`
}
