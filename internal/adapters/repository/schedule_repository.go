package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const scheduleColumns = "id, parent_id, starts_at, time_label, activity, location, status, children, duration"

func scanScheduleItem(row rowScanner) (domain.ScheduleItem, error) {
	var item domain.ScheduleItem
	err := row.Scan(
		&item.ID, &item.ParentID, &item.StartsAt, &item.Time, &item.Activity,
		&item.Location, &item.Status, pq.Array(&item.Children), &item.Duration,
	)
	if item.Children == nil {
		item.Children = []string{}
	}
	return item, err
}

func (r *SQLRepository) ListSchedule(ctx context.Context, parentID string) ([]domain.ScheduleItem, error) {
	var items []domain.ScheduleItem
	err := r.exec(func() error {
		rows, err := r.db.QueryContext(ctx,
			"SELECT "+scheduleColumns+" FROM schedule_items WHERE parent_id = $1 ORDER BY starts_at",
			parentID,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		items = make([]domain.ScheduleItem, 0)
		for rows.Next() {
			item, err := scanScheduleItem(rows)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return rows.Err()
	})
	return items, err
}

func (r *SQLRepository) GetScheduleItem(ctx context.Context, parentID, itemID string) (*domain.ScheduleItem, error) {
	var item domain.ScheduleItem
	err := r.exec(func() error {
		i, err := scanScheduleItem(r.db.QueryRowContext(ctx,
			"SELECT "+scheduleColumns+" FROM schedule_items WHERE id = $1 AND parent_id = $2",
			itemID, parentID,
		))
		item = i
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *SQLRepository) CreateScheduleItems(ctx context.Context, items []domain.ScheduleItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.exec(func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO schedule_items ("+scheduleColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)")
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, item := range items {
			if _, err := stmt.ExecContext(ctx,
				item.ID, item.ParentID, item.StartsAt, item.Time, item.Activity,
				item.Location, item.Status, pq.Array(item.Children), item.Duration,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// CancelScheduleItem flips the status and writes the outbox row in one
// transaction. The outbox trigger notifies the relay.
func (r *SQLRepository) CancelScheduleItem(ctx context.Context, item domain.ScheduleItem, event []byte) error {
	return r.exec(func() error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		res, err := tx.ExecContext(ctx,
			"UPDATE schedule_items SET status = $3 WHERE id = $1 AND parent_id = $2 AND status = $4",
			item.ID, item.ParentID, domain.SessionCancelled, domain.SessionUpcoming,
		)
		if err != nil {
			return err
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, NOW())",
			uuid.NewString(), ports.EventSessionCancelled, event,
		); err != nil {
			return err
		}

		return tx.Commit()
	})
}
