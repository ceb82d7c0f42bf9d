package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/oksasatya/go-identity-service/internal/domain/entity"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the repositories use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const selectAccount = `
	SELECT id::text, username, email, password_hash, scope,
	       is_email_verified, is_admin_user, is_deleted, created_at, updated_at
	FROM accounts`

// Exists matches on username, or on email as well when email is given.
func (r *UserRepository) Exists(ctx context.Context, username, email string) (*entity.User, error) {
	var row pgx.Row
	if email == "" {
		row = r.db.QueryRow(ctx, selectAccount+` WHERE username = $1 LIMIT 1`, username)
	} else {
		row = r.db.QueryRow(ctx, selectAccount+` WHERE username = $1 OR email = $2 ORDER BY (username = $1) DESC LIMIT 1`, username, email)
	}
	var rec accountRecord
	err := row.Scan(&rec.ID, &rec.Username, &rec.Email, &rec.PasswordHash, &rec.Scope,
		&rec.IsEmailVerified, &rec.IsAdminUser, &rec.IsDeleted, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, repository.StorageError("find account", err)
	}
	u, err := rec.toDomain()
	if err != nil {
		return nil, repository.StorageError("map account", err)
	}
	return u, nil
}

func (r *UserRepository) Save(ctx context.Context, u *entity.User) (bool, error) {
	rec := fromDomain(u)
	tag, err := r.db.Exec(ctx, `
		INSERT INTO accounts (id, username, email, password_hash, scope,
		                      is_email_verified, is_admin_user, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, rec.ID, rec.Username, rec.Email, rec.PasswordHash, rec.Scope,
		rec.IsEmailVerified, rec.IsAdminUser, rec.IsDeleted, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return false, repository.StorageError("insert account", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) MarkUserForDeletion(ctx context.Context, u *entity.User) (bool, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE accounts SET is_deleted = TRUE, updated_at = $2
		WHERE username = $1
	`, u.Username().Value(), time.Now().UTC())
	if err != nil {
		return false, repository.StorageError("mark account deleted", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *UserRepository) Delete(ctx context.Context, u *entity.User) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM accounts WHERE username = $1`, u.Username().Value())
	if err != nil {
		return false, repository.StorageError("delete account", err)
	}
	return tag.RowsAffected() == 1, nil
}

// accountRecord mirrors a row of the accounts table.
type accountRecord struct {
	ID              string
	Username        string
	Email           string
	PasswordHash    string
	Scope           string
	IsEmailVerified bool
	IsAdminUser     bool
	IsDeleted       bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (rec accountRecord) toDomain() (*entity.User, error) {
	id := entity.ParseUserID(rec.ID)
	name := entity.NewUserName(rec.Username)
	email := entity.NewUserEmail(rec.Email)
	cred := entity.CredentialFromHash(rec.PasswordHash)
	scope := entity.NewUserScope(rec.Scope)
	for _, r := range []interface {
		IsFailure() bool
		Error() string
	}{id, name, email, cred, scope} {
		if r.IsFailure() {
			return nil, fmt.Errorf("account %s: %s", rec.ID, r.Error())
		}
	}
	uid := id.Value()
	u := entity.NewUser(entity.UserProps{
		Username:        name.Value(),
		Email:           email.Value(),
		Credential:      cred.Value(),
		Scope:           scope.Value(),
		IsEmailVerified: rec.IsEmailVerified,
		IsAdminUser:     rec.IsAdminUser,
		IsDeleted:       rec.IsDeleted,
		CreatedAt:       rec.CreatedAt,
		UpdatedAt:       rec.UpdatedAt,
	}, &uid)
	if u.IsFailure() {
		return nil, u.Err()
	}
	return u.Value(), nil
}

func fromDomain(u *entity.User) accountRecord {
	return accountRecord{
		ID:              u.ID().String(),
		Username:        u.Username().Value(),
		Email:           u.Email().Value(),
		PasswordHash:    u.Credential().Hash(),
		Scope:           u.Scope().Value(),
		IsEmailVerified: u.IsEmailVerified(),
		IsAdminUser:     u.IsAdminUser(),
		IsDeleted:       u.IsDeleted(),
		CreatedAt:       u.CreatedAt(),
		UpdatedAt:       u.UpdatedAt(),
	}
}

var _ repository.UserRepository = (*UserRepository)(nil)
