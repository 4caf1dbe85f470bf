package format_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"truckboard/pkg/format"
)

func TestDateTime(t *testing.T) {
	tests := []struct {
		name string
		date string
		tm   string
		want string
	}{
		{"afternoon", "2024-03-05", "14:30", "03/05/2024 at 2:30 PM"},
		{"morning", "2024-03-05", "09:05", "03/05/2024 at 9:05 AM"},
		{"midnight renders as twelve", "2024-01-01", "00:15", "01/01/2024 at 12:15 AM"},
		{"noon", "2024-06-30", "12:00", "06/30/2024 at 12:00 PM"},
		{"with seconds", "2024-03-05", "14:30:00", "03/05/2024 at 2:30 PM"},
		{"missing date", "", "14:30", ""},
		{"missing time", "2024-03-05", "", ""},
		{"garbage date", "not-a-date", "14:30", ""},
		{"garbage time", "2024-03-05", "half past two", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, format.DateTime(tt.date, tt.tm))
		})
	}
}

func TestPhoneNumber(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  string
	}{
		{"bare ten digits", "5551234567", "555-123-4567"},
		{"already formatted", "555-123-4567", "555-123-4567"},
		{"parenthesized", "(555) 123-4567", "555-123-4567"},
		{"dotted", "555.123.4567", "555-123-4567"},
		{"too short stays as-is", "12345", "12345"},
		{"eleven digits stays as-is", "15551234567", "15551234567"},
		{"international stays as-is", "+44 20 7946 0958", "+44 20 7946 0958"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, format.PhoneNumber(tt.phone))
		})
	}
}
