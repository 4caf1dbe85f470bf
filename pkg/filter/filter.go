// Package filter implements the incremental search over a loaded order set:
// case-insensitive substring containment against each order's searchable
// fields, OR semantics across fields.
package filter

import (
	"strconv"
	"strings"

	"truckboard/pkg/models"
)

// Orders returns the orders whose searchable surface contains query. An empty
// query returns the input slice itself so downstream consumers can cheaply
// detect "nothing changed". Relative order is preserved and the input is
// never mutated.
func Orders(orders []models.Order, query string) []models.Order {
	if query == "" {
		return orders
	}

	q := strings.ToLower(query)
	var matched []models.Order
	for _, o := range orders {
		if Matches(o, q) {
			matched = append(matched, o)
		}
	}
	return matched
}

// Matches reports whether any searchable field of o contains the already
// lower-cased query as a substring.
func Matches(o models.Order, loweredQuery string) bool {
	for _, field := range searchable(o) {
		if strings.Contains(strings.ToLower(field), loweredQuery) {
			return true
		}
	}
	return false
}

// searchable builds the per-order search surface. Absent fields contribute
// empty strings, which can never match a non-empty query.
func searchable(o models.Order) []string {
	return []string{
		str(o.FirstName) + " " + str(o.LastName),
		str(o.PhoneNumber),
		tonnage(o.Tonnage),
		str(o.PickupStreetAddress),
		str(o.PickupCity),
		str(o.PickupState),
		str(o.PickupZipCode),
		str(o.DropoffStreetAddress),
		str(o.DropoffCity),
		str(o.DropoffState),
		str(o.DropoffZipCode),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// tonnage renders the decimal form used for matching: 5 -> "5", 5.5 -> "5.5".
func tonnage(t *float64) string {
	if t == nil {
		return ""
	}
	return strconv.FormatFloat(*t, 'f', -1, 64)
}
