package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"truckboard/pkg/logger"
	"truckboard/pkg/models"
	"truckboard/storage"
)

type orderRepo struct {
	db  *pgxpool.Pool
	log logger.ILogger
}

func NewOrderRepo(db *pgxpool.Pool, log logger.ILogger) storage.IOrderStorage {
	return &orderRepo{db: db, log: log}
}

// QueryOrders reads the whole order_with_profile view, most recent pickup
// first, id descending as the tie-break so repeated fetches are stable.
// Dates and times come back as raw strings so the display formatters own the
// rendering.
func (r *orderRepo) QueryOrders(ctx context.Context) ([]models.Order, error) {
	query := `
		SELECT id, first_name, last_name, phone_number, tonnage,
		       to_char(pickup_date, 'YYYY-MM-DD'), to_char(pickup_time, 'HH24:MI'),
		       pickup_street_address, pickup_city, pickup_state, pickup_zip_code,
		       to_char(dropoff_date, 'YYYY-MM-DD'), to_char(dropoff_time, 'HH24:MI'),
		       dropoff_street_address, dropoff_city, dropoff_state, dropoff_zip_code
		FROM order_with_profile
		ORDER BY pickup_date DESC NULLS LAST, id DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("failed to query orders", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.FirstName, &o.LastName, &o.PhoneNumber, &o.Tonnage,
			&o.PickupDate, &o.PickupTime,
			&o.PickupStreetAddress, &o.PickupCity, &o.PickupState, &o.PickupZipCode,
			&o.DropoffDate, &o.DropoffTime,
			&o.DropoffStreetAddress, &o.DropoffCity, &o.DropoffState, &o.DropoffZipCode,
		)
		if err != nil {
			r.log.Error("failed to scan order row", logger.Error(err))
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		r.log.Error("order rows iteration failed", logger.Error(err))
		return nil, err
	}
	return orders, nil
}
