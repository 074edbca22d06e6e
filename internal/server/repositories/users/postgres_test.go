package users

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/contacthub/internal/common"
	"github.com/dmitrijs2005/contacthub/internal/server/models"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userCols = []string{"id", "username", "email", "hashed_password",
	"created_at", "avatar", "confirmed", "role", "refresh_token"}

func aliceRow() *sqlmock.Rows {
	return sqlmock.NewRows(userCols).AddRow(
		int64(1), "alice", "alice@example.com", "$2a$10$hash",
		time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "", true, "user", "tok")
}

func TestGetByUsername(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnRows(aliceRow())

	user, err := repo.GetByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByUsername error: %v", err)
	}
	if user.ID != 1 || user.Email != "alice@example.com" || !user.Confirmed {
		t.Fatalf("unexpected user: %+v", user)
	}
	if user.Role != models.RoleUser {
		t.Fatalf("role: got %q", user.Role)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM users WHERE email = \$1`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users .+ RETURNING id, created_at`).
		WithArgs("alice", "alice@example.com", "hash", "http://avatar", false, "user").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), created))

	user, err := repo.Create(context.Background(), &models.User{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: "hash",
		Avatar:         "http://avatar",
		Role:           models.RoleUser,
	})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if user.ID != 5 || !user.CreatedAt.Equal(created) {
		t.Fatalf("db-assigned fields not set: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreate_UniqueViolation(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.Create(context.Background(), &models.User{
		Username: "alice", Email: "alice@example.com", Role: models.RoleUser,
	})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}
}

func TestUpdateRefreshToken(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE users SET refresh_token = NULLIF\(\$2, ''\) WHERE id = \$1`).
		WithArgs(int64(1), "new-token").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateRefreshToken(context.Background(), 1, "new-token"); err != nil {
		t.Fatalf("UpdateRefreshToken error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdatePassword(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE users SET hashed_password = \$2 WHERE id = \$1`).
		WithArgs(int64(1), "new-hash").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), 1, "new-hash"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestConfirmEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectExec(`UPDATE users SET confirmed = TRUE WHERE email = \$1`).
		WithArgs("alice@example.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.ConfirmEmail(context.Background(), "alice@example.com"); err != nil {
		t.Fatalf("ConfirmEmail error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateAvatar(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	rows := sqlmock.NewRows(userCols).AddRow(
		int64(1), "alice", "alice@example.com", "hash",
		time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"http://new-avatar", true, "user", "")
	mock.ExpectQuery(`UPDATE users SET avatar = NULLIF\(\$2, ''\) WHERE email = \$1`).
		WithArgs("alice@example.com", "http://new-avatar").
		WillReturnRows(rows)

	user, err := repo.UpdateAvatar(context.Background(), "alice@example.com", "http://new-avatar")
	if err != nil {
		t.Fatalf("UpdateAvatar error: %v", err)
	}
	if user.Avatar != "http://new-avatar" {
		t.Fatalf("avatar: got %q", user.Avatar)
	}
}

func TestUpdateAvatar_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPostgresRepository(db)

	mock.ExpectQuery(`UPDATE users SET avatar`).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.UpdateAvatar(context.Background(), "ghost@example.com", "u")
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
