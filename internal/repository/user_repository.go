package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/user-service/internal/domain"
)

// UserFilter captures search criteria. All supplied criteria combine with
// logical AND; name and email match as case-insensitive substrings, the
// created_at bounds form a half-open interval [start, end).
type UserFilter struct {
	Name           string
	Email          string
	Status         domain.UserStatus
	CreatedAtStart *time.Time
	CreatedAtEnd   *time.Time
}

// SortSpec names the storage ordering for a page fetch. Ties on the sort
// column break on ascending id so pages stay stable across calls.
type SortSpec struct {
	Field     domain.SortField
	Direction domain.SortDirection
}

// UserRepository encapsulates user persistence. FindByID returns (nil, nil)
// when no user matches; absence is not an error at this layer.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Count(ctx context.Context, filter UserFilter) (int, error)
	Find(ctx context.Context, filter UserFilter, sort SortSpec, offset, limit int) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates the postgres-backed repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Save(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, status, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (id) DO UPDATE
        SET name=EXCLUDED.name, email=EXCLUDED.email, status=EXCLUDED.status,
            updated_at=EXCLUDED.updated_at`
	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

func (r *userRepository) Delete(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, user.ID)
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, status, created_at, updated_at
        FROM users WHERE id=$1`
	var user domain.User
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int, error) {
	clauses, args := buildClauses(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM users WHERE %s`, strings.Join(clauses, " AND "))

	var total int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *userRepository) Find(ctx context.Context, filter UserFilter, sort SortSpec, offset, limit int) ([]domain.User, error) {
	clauses, args := buildClauses(filter)

	// Sort column and direction come from validated enums, never raw input.
	query := fmt.Sprintf(`
        SELECT id, name, email, status, created_at, updated_at
        FROM users WHERE %s ORDER BY %s %s, id ASC LIMIT %d OFFSET %d`,
		strings.Join(clauses, " AND "),
		sort.Field.Column(),
		sort.Direction,
		limit,
		offset,
	)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func buildClauses(filter UserFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if strings.TrimSpace(filter.Name) != "" {
		args = append(args, "%"+filter.Name+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if strings.TrimSpace(filter.Email) != "" {
		args = append(args, "%"+filter.Email+"%")
		clauses = append(clauses, fmt.Sprintf("email ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.CreatedAtStart != nil {
		args = append(args, *filter.CreatedAtStart)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedAtEnd != nil {
		args = append(args, *filter.CreatedAtEnd)
		clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
	}

	return clauses, args
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	result := []domain.User{}
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.Status,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
