package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/activeplay/booking-service/internal/config"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/domain"
	"github.com/AchilleasB/activeplay/booking-service/internal/core/ports"
)

const uniqueViolation = "23505"

// SQLRepository is the Postgres side of the service: credentials,
// children, schedule, drivers, reports and the outbox.
type SQLRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var (
	_ ports.CredentialRepository = (*SQLRepository)(nil)
	_ ports.ChildRepository      = (*SQLRepository)(nil)
	_ ports.ScheduleRepository   = (*SQLRepository)(nil)
	_ ports.ReportRepository     = (*SQLRepository)(nil)
	_ ports.DriverRoster         = (*SQLRepository)(nil)
)

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db, cb: config.NewCircuitBreaker(config.BreakerPostgres)}
}

// exec runs fn through the Postgres circuit breaker. Not-found and
// constraint errors are domain outcomes and do not count as failures.
func (r *SQLRepository) exec(fn func() error) error {
	var outcome error
	_, err := r.cb.Execute(func() (interface{}, error) {
		err := fn()
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrEmailInUse) {
			outcome = err
			return nil, nil
		}
		return nil, err
	})
	if outcome != nil {
		return outcome
	}
	return err
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	return err
}

func (r *SQLRepository) CreateCredential(ctx context.Context, cred domain.Credential) error {
	return r.exec(func() error {
		_, err := r.db.ExecContext(ctx,
			"INSERT INTO credentials (user_id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)",
			cred.UserID,
			cred.Email,
			cred.PasswordHash,
			cred.CreatedAt,
		)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailInUse
		}
		return err
	})
}

func (r *SQLRepository) FindCredentialByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	var cred domain.Credential
	err := r.exec(func() error {
		err := r.db.QueryRowContext(ctx,
			"SELECT user_id, email, password_hash, created_at FROM credentials WHERE email = $1",
			email,
		).Scan(&cred.UserID, &cred.Email, &cred.PasswordHash, &cred.CreatedAt)
		return notFound(err)
	})
	if err != nil {
		return nil, err
	}
	return &cred, nil
}

// DeleteCredential removes a credential whose profile could not be created.
func (r *SQLRepository) DeleteCredential(ctx context.Context, userID string) error {
	return r.exec(func() error {
		res, err := r.db.ExecContext(ctx, "DELETE FROM credentials WHERE user_id = $1", userID)
		if err != nil {
			return err
		}
		return requireAffected(res)
	})
}

// Ping checks the database through the breaker; used by readiness.
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.exec(func() error {
		return r.db.PingContext(ctx)
	})
}
