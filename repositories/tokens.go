package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediconecta/backend/apperrors"
	"github.com/mediconecta/backend/models"
)

// TokenRepository maneja la persistencia de los refresh tokens. Un token
// revocado o expirado no puede volver a usarse.
type TokenRepository interface {
	Guardar(ctx context.Context, userID int, token string, expiresAt time.Time) error
	Buscar(ctx context.Context, token string) (*models.RefreshToken, error)
	Revocar(ctx context.Context, token string) error
	RevocarTodos(ctx context.Context, userID int) error
}

type tokenRepository struct {
	db *pgxpool.Pool
}

// NewTokenRepository crea el repositorio de refresh tokens
func NewTokenRepository(db *pgxpool.Pool) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Guardar(ctx context.Context, userID int, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO RefreshToken (user_id, token, expires_at, created_at, is_revoked)
		 VALUES ($1, $2, $3, $4, false)`,
		userID, token, expiresAt, time.Now())
	if err != nil {
		return apperrors.Internal("Error al guardar refresh token", err)
	}
	return nil
}

func (r *tokenRepository) Buscar(ctx context.Context, token string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, token, expires_at, created_at, is_revoked
		 FROM RefreshToken WHERE token = $1`, token).Scan(
		&rt.ID, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.CreatedAt, &rt.IsRevoked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.Unauthorized("Token inválido")
		}
		return nil, apperrors.Internal("Error al consultar refresh token", err)
	}
	return &rt, nil
}

func (r *tokenRepository) Revocar(ctx context.Context, token string) error {
	_, err := r.db.Exec(ctx,
		"UPDATE RefreshToken SET is_revoked = true WHERE token = $1", token)
	if err != nil {
		return apperrors.Internal("Error al revocar refresh token", err)
	}
	return nil
}

func (r *tokenRepository) RevocarTodos(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx,
		"UPDATE RefreshToken SET is_revoked = true WHERE user_id = $1", userID)
	if err != nil {
		return apperrors.Internal("Error al revocar refresh tokens", err)
	}
	return nil
}
