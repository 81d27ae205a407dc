package repository

import (
	"context"

	"github.com/lib/pq"

	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
)

const reportColumns = `r.id, r.child_id, c.name, r.period_start, r.period_end, r.week,
	r.physical_score, r.social_score, r.behavior_score, r.activities, r.highlights, r.improvements`

func scanReport(row rowScanner) (domain.Report, error) {
	var rep domain.Report
	err := row.Scan(
		&rep.ID, &rep.ChildID, &rep.ChildName, &rep.PeriodStart, &rep.PeriodEnd, &rep.Week,
		&rep.PhysicalScore, &rep.SocialScore, &rep.BehaviorScore,
		pq.Array(&rep.Activities), pq.Array(&rep.Highlights), pq.Array(&rep.Improvements),
	)
	return rep, err
}

func (r *SQLRepository) ListReports(ctx context.Context, parentID string) ([]domain.Report, error) {
	var reports []domain.Report
	err := r.exec(func() error {
		rows, err := r.db.QueryContext(ctx, `
			SELECT `+reportColumns+`
			FROM reports r JOIN children c ON c.id = r.child_id
			WHERE c.parent_id = $1
			ORDER BY r.period_start DESC`, parentID)
		if err != nil {
			return err
		}
		defer rows.Close()

		reports = make([]domain.Report, 0)
		for rows.Next() {
			rep, err := scanReport(rows)
			if err != nil {
				return err
			}
			reports = append(reports, rep)
		}
		return rows.Err()
	})
	return reports, err
}

func (r *SQLRepository) GetReport(ctx context.Context, parentID, reportID string) (*domain.Report, error) {
	var rep domain.Report
	err := r.exec(func() error {
		got, err := scanReport(r.db.QueryRowContext(ctx, `
			SELECT `+reportColumns+`
			FROM reports r JOIN children c ON c.id = r.child_id
			WHERE r.id = $1 AND c.parent_id = $2`, reportID, parentID))
		rep = got
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *SQLRepository) ListAchievements(ctx context.Context, parentID string) ([]domain.Achievement, error) {
	var achievements []domain.Achievement
	err := r.exec(func() error {
		rows, err := r.db.QueryContext(ctx, `
			SELECT a.id, a.child_id, c.name, a.title, a.description, a.type, a.earned_at
			FROM achievements a JOIN children c ON c.id = a.child_id
			WHERE c.parent_id = $1
			ORDER BY a.earned_at DESC`, parentID)
		if err != nil {
			return err
		}
		defer rows.Close()

		achievements = make([]domain.Achievement, 0)
		for rows.Next() {
			var a domain.Achievement
			if err := rows.Scan(&a.ID, &a.ChildID, &a.ChildName, &a.Title, &a.Description, &a.Type, &a.EarnedAt); err != nil {
				return err
			}
			achievements = append(achievements, a)
		}
		return rows.Err()
	})
	return achievements, err
}
