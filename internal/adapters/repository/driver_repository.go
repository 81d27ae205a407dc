package repository

import (
	"context"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

// NextAvailableDriver picks the least recently assigned active driver and
// stamps the assignment.
func (r *SQLRepository) NextAvailableDriver(ctx context.Context) (*domain.Driver, error) {
	var d domain.Driver
	err := r.exec(func() error {
		err := r.db.QueryRowContext(ctx, `
			UPDATE drivers SET last_assigned_at = NOW()
			WHERE id = (
				SELECT id FROM drivers
				WHERE active
				ORDER BY last_assigned_at NULLS FIRST, id
				LIMIT 1
				FOR UPDATE SKIP LOCKED
			)
			RETURNING id, name, vehicle_number, phone`,
		).Scan(&d.ID, &d.Name, &d.VehicleNumber, &d.Phone)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}
