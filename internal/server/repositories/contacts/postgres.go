package contacts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/dbx"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

const uniqueViolation = "23505"

// PostgresRepository implements Repository over dbx.DBTX
// (satisfied by *sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone_number, birthday,
	COALESCE(additional_info, ''), created_at, updated_at, user_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(row rowScanner) (*models.Contact, error) {
	contact := &models.Contact{}
	var birthday sql.NullTime
	err := row.Scan(&contact.ID, &contact.FirstName, &contact.LastName,
		&contact.Email, &contact.PhoneNumber, &birthday, &contact.AdditionalInfo,
		&contact.CreatedAt, &contact.UpdatedAt, &contact.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if birthday.Valid {
		b := birthday.Time
		contact.Birthday = &b
	}
	return contact, nil
}

func (r *PostgresRepository) queryContacts(ctx context.Context, query string, args ...any) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64, page Page, filter Filter) ([]*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1`
	args := []any{userID}

	if filter.FirstName != "" {
		args = append(args, "%"+filter.FirstName+"%")
		query += ` AND first_name LIKE $` + strconv.Itoa(len(args))
	}
	if filter.LastName != "" {
		args = append(args, "%"+filter.LastName+"%")
		query += ` AND last_name LIKE $` + strconv.Itoa(len(args))
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		query += ` AND email LIKE $` + strconv.Itoa(len(args))
	}

	args = append(args, page.Skip)
	query += ` ORDER BY id OFFSET $` + strconv.Itoa(len(args))
	args = append(args, page.Limit)
	query += ` LIMIT $` + strconv.Itoa(len(args))

	return r.queryContacts(ctx, query, args...)
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	return scanContact(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	query := `
		INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_info, user_id)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
		nullableTime(contact.Birthday), contact.AdditionalInfo, contact.UserID).
		Scan(&contact.ID, &contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return contact, nil
}

func (r *PostgresRepository) Update(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	// updated_at is refreshed explicitly on every mutation path.
	query := `
		UPDATE contacts
		SET first_name = $3, last_name = $4, email = $5, phone_number = $6,
		    birthday = $7, additional_info = NULLIF($8, ''), updated_at = now()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns
	updated, err := scanContact(r.db.QueryRowContext(ctx, query,
		contact.ID, contact.UserID, contact.FirstName, contact.LastName,
		contact.Email, contact.PhoneNumber, nullableTime(contact.Birthday),
		contact.AdditionalInfo))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrConflict
		}
		return nil, err
	}
	return updated, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id int64) (*models.Contact, error) {
	query := `
		DELETE FROM contacts
		WHERE id = $1 AND user_id = $2
		RETURNING ` + contactColumns
	return scanContact(r.db.QueryRowContext(ctx, query, id, userID))
}

func (r *PostgresRepository) UpcomingBirthdays(ctx context.Context, userID int64, today time.Time, days int) ([]*models.Contact, error) {
	target := today.AddDate(0, 0, days)

	base := `SELECT ` + contactColumns + ` FROM contacts
		WHERE user_id = $1 AND birthday IS NOT NULL AND `

	var condition string
	if target.Year() == today.Year() {
		// Window stays within the same year.
		condition = `(
			(EXTRACT(MONTH FROM birthday) = $2 AND EXTRACT(DAY FROM birthday) >= $3)
			OR (EXTRACT(MONTH FROM birthday) = $4 AND EXTRACT(DAY FROM birthday) <= $5)
			OR (EXTRACT(MONTH FROM birthday) > $2 AND EXTRACT(MONTH FROM birthday) < $4)
		)`
	} else {
		// Window crosses into the next year.
		condition = `(
			(EXTRACT(MONTH FROM birthday) = $2 AND EXTRACT(DAY FROM birthday) >= $3)
			OR EXTRACT(MONTH FROM birthday) > $2
			OR (EXTRACT(MONTH FROM birthday) = $4 AND EXTRACT(DAY FROM birthday) <= $5)
			OR EXTRACT(MONTH FROM birthday) < $4
		)`
	}

	query := base + condition + ` ORDER BY id`
	return r.queryContacts(ctx, query, userID,
		int(today.Month()), today.Day(), int(target.Month()), target.Day())
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
