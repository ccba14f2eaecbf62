package repository

import (
	"database/sql"
	"sms-relay-api/logger"
	"sms-relay-api/model"
	"time"

	"github.com/sirupsen/logrus"
)

// ITokenRepository defines the contract for access/refresh token database
// operations. Token rows are append-only: nothing here deletes a row, only
// the revoked flag is ever updated.
type ITokenRepository interface {
	CreateAccessToken(token *model.AccessToken) error
	CreateRefreshToken(token *model.RefreshToken) error
	GetAccessTokenByID(id string) (*model.AccessToken, error)
	GetValidRefreshToken(refreshTokenID string, userID string, now time.Time) (*model.RefreshToken, error)
	RevokePairBySessionID(sessionID string) error
	RevokePairByRefreshToken(refreshTokenID string) (bool, error)
}

// TokenRepository implements ITokenRepository on top of Postgres.
type TokenRepository struct {
	DB *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// CreateAccessToken inserts a new access token record keyed by its jti.
func (r *TokenRepository) CreateAccessToken(token *model.AccessToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new access token")

	query := `INSERT INTO access_tokens (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.DB.Exec(query, token.ID, token.UserID, token.CreatedAt, token.ExpiresAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create access token query")
		return err
	}
	return nil
}

// CreateRefreshToken inserts the refresh token record linked to its paired
// access token.
func (r *TokenRepository) CreateRefreshToken(token *model.RefreshToken) error {
	log := logger.Log.WithField("access_token_id", token.AccessTokenID)
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (id, access_token_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.DB.Exec(query, token.ID, token.AccessTokenID, token.ExpiresAt)
	if err != nil {
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetAccessTokenByID retrieves an access token record by its jti. Returns
// sql.ErrNoRows when the record is absent.
func (r *TokenRepository) GetAccessTokenByID(id string) (*model.AccessToken, error) {
	token := &model.AccessToken{}
	query := `SELECT id, user_id, revoked, created_at, expires_at FROM access_tokens WHERE id = $1`
	err := r.DB.QueryRow(query, id).Scan(&token.ID, &token.UserID, &token.Revoked, &token.CreatedAt, &token.ExpiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get access token query")
		}
		return nil, err
	}
	return token, nil
}

// GetValidRefreshToken retrieves a refresh token only if it is unrevoked,
// unexpired and its linked access token belongs to the given user. Returns
// sql.ErrNoRows when no such token exists.
func (r *TokenRepository) GetValidRefreshToken(refreshTokenID string, userID string, now time.Time) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT rt.id, rt.access_token_id, rt.revoked, rt.expires_at
		FROM refresh_tokens rt
		JOIN access_tokens act ON act.id = rt.access_token_id
		WHERE rt.id = $1 AND rt.revoked = 0 AND rt.expires_at > $2 AND act.user_id = $3`
	err := r.DB.QueryRow(query, refreshTokenID, now, userID).Scan(&token.ID, &token.AccessTokenID, &token.Revoked, &token.ExpiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get valid refresh token query")
		}
		return nil, err
	}
	return token, nil
}

// RevokePairBySessionID revokes the access token with the given jti and its
// linked refresh token. Revoking an already revoked pair is a no-op.
func (r *TokenRepository) RevokePairBySessionID(sessionID string) error {
	log := logger.Log.WithField("session_id", sessionID)
	log.Info("Executing queries to revoke token pair by session id")

	tx, err := r.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE access_tokens SET revoked = 1 WHERE id = $1`, sessionID); err != nil {
		log.WithError(err).Error("Failed to revoke access token")
		return err
	}
	if _, err := tx.Exec(`UPDATE refresh_tokens SET revoked = 1 WHERE access_token_id = $1`, sessionID); err != nil {
		log.WithError(err).Error("Failed to revoke linked refresh token")
		return err
	}

	return tx.Commit()
}

// RevokePairByRefreshToken atomically revokes a refresh token and its paired
// access token. The refresh token update is conditional on the token not
// already being revoked, so of two concurrent rotation attempts exactly one
// observes rows affected and wins. Returns false when the token was already
// revoked (or absent).
func (r *TokenRepository) RevokePairByRefreshToken(refreshTokenID string) (bool, error) {
	log := logger.Log.WithField("refresh_token_id", refreshTokenID)
	log.Info("Executing queries to revoke token pair by refresh token")

	tx, err := r.DB.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE refresh_tokens SET revoked = 1 WHERE id = $1 AND revoked = 0`, refreshTokenID)
	if err != nil {
		log.WithError(err).Error("Failed to revoke refresh token")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		// Lost the race or the token never existed.
		return false, nil
	}

	query := `UPDATE access_tokens SET revoked = 1
		WHERE id = (SELECT access_token_id FROM refresh_tokens WHERE id = $1)`
	if _, err := tx.Exec(query, refreshTokenID); err != nil {
		log.WithError(err).Error("Failed to revoke paired access token")
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}
