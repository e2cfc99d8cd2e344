package repository

import (
	"context"
	"database/sql"
	"errors"
	"slot-swapper/core/database"
	"slot-swapper/core/logger"
	"slot-swapper/modules/auth/entity"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// ErrUsernameTaken is returned by CreateUser when the username already exists.
var ErrUsernameTaken = errors.New("username already taken")

type AuthRepositoryInterface interface {
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error)
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
}

type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

const userColumns = `id, username, email, password_hash, first_name, last_name, created_at, updated_at`

func (r *AuthRepository) GetUserByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	err := r.DB.GetContext(ctx, &user, query, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByUsername:Error", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID:Error", "error", err)
		return nil, err
	}
	return &user, nil
}

func (r *AuthRepository) GetUsersByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.User, error) {
	if len(ids) == 0 {
		return []entity.User{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+userColumns+` FROM users WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.SQLx().Rebind(query)

	var users []entity.User
	if err := r.DB.SelectContext(ctx, &users, query, args...); err != nil {
		logger.Error("AuthRepository:GetUsersByIDs:Error", "error", err)
		return nil, err
	}
	return users, nil
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	query := `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.FirstName, user.LastName)
	if err != nil {
		if errors.Is(err, database.ErrConflict) {
			return nil, ErrUsernameTaken
		}
		logger.Error("AuthRepository:CreateUser:Error", "error", err)
		return nil, err
	}
	return &created, nil
}
