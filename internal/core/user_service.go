package core

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userService struct {
	pool *pgxpool.Pool
}

// NewUserService constructs a UserService backed by PostgreSQL.
func NewUserService(pool *pgxpool.Pool) UserService {
	return &userService{pool: pool}
}

const userColumns = "id, email, full_name, is_active, is_superuser, hashed_password, api_token"

func scanUser(row pgx.Row) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.FullName, &u.IsActive, &u.IsSuperuser, &u.HashedPassword, &u.APIToken)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser inserts a user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, input UserInput) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u, err := scanUser(s.pool.QueryRow(ctx, `
		INSERT INTO users (email, full_name, is_active, is_superuser, hashed_password)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		input.Email, toPtr(input.FullName), input.IsActive, input.IsSuperuser, string(hash),
	))
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", input.Email, err)
	}
	return u, nil
}

func (s *userService) GetUsers(ctx context.Context, skip, limit int) ([]User, int, error) {
	offset, max := listWindow(skip, limit)
	query, args, err := psql.Select(userColumns).From("users").
		OrderBy("email").Offset(offset).Limit(max).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build users query: %w", err)
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("get users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	total, err := countRows(ctx, s.pool, "users")
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *userService) GetUser(ctx context.Context, id int) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1`,
		id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return u, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int, update UserUpdate) (*User, error) {
	b := psql.Update("users").Where(sq.Eq{"id": id}).Suffix("RETURNING " + userColumns)
	changed := false
	if update.Email != nil {
		b = b.Set("email", *update.Email)
		changed = true
	}
	if update.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		b = b.Set("hashed_password", string(hash))
		changed = true
	}
	if update.FullName != nil {
		b = b.Set("full_name", toPtr(*update.FullName))
		changed = true
	}
	if update.IsActive != nil {
		b = b.Set("is_active", *update.IsActive)
		changed = true
	}
	if update.IsSuperuser != nil {
		b = b.Set("is_superuser", *update.IsSuperuser)
		changed = true
	}
	if !changed {
		return s.GetUser(ctx, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user update: %w", err)
	}
	u, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return u, nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	return nil
}

// Authenticate verifies an email and password pair against active users.
func (s *userService) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1 AND is_active = true`,
		email,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("authenticate %q: %w", email, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// CheckPassword verifies the given password against the stored hash of an
// existing user. Unlike Authenticate it works by ID and ignores is_active,
// because the caller already holds a session.
func (s *userService) CheckPassword(ctx context.Context, userID int, password string) error {
	var hash string
	err := s.pool.QueryRow(ctx, `SELECT hashed_password FROM users WHERE id = $1`, userID).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return fmt.Errorf("check password for user %d: %w", userID, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *userService) SetAPIToken(ctx context.Context, userID int, cipher string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET api_token = $2 WHERE id = $1`, userID, toPtr(cipher))
	if err != nil {
		return fmt.Errorf("set api token for user %d: %w", userID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return nil
}

func (s *userService) APIToken(ctx context.Context, userID int) (*string, error) {
	var cipher *string
	err := s.pool.QueryRow(ctx, `SELECT api_token FROM users WHERE id = $1`, userID).Scan(&cipher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("get api token for user %d: %w", userID, err)
	}
	return cipher, nil
}
