package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sms-relay-api/common"
	"sms-relay-api/config"
	"sms-relay-api/logger"
	"sms-relay-api/model"
	"sms-relay-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func getJwtKey() []byte {
	return []byte(config.AppConfig.JWT.SecretKey)
}

// AuthService owns the token lifecycle: issuing, validating, rotating and
// revoking access/refresh token pairs, plus password based login and
// registration.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
}

func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository) *AuthService {
	return &AuthService{userRepo: userRepo, tokenRepo: tokenRepo}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// IssuePair mints a new access/refresh token pair for the user and persists
// both records. The access token is a signed JWT whose jti is the session
// id; the refresh token expiry is the access expiry plus the configured
// extension.
func (s *AuthService) IssuePair(user *model.User) (*model.TokenPair, error) {
	jti, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(time.Duration(config.AppConfig.JWT.AccessTokenExpiresMinutes) * time.Minute)

	claims := &model.AppClaims{
		Username: user.Email,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(getJwtKey())
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign JWT")
		return nil, fmt.Errorf("failed to sign token string: %w", err)
	}

	if err := s.tokenRepo.CreateAccessToken(&model.AccessToken{
		ID:        jti,
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, err
	}

	refreshID, err := randomHex(64)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token id: %w", err)
	}

	if err := s.tokenRepo.CreateRefreshToken(&model.RefreshToken{
		ID:            refreshID,
		AccessTokenID: jti,
		ExpiresAt:     expiresAt.Add(time.Duration(config.AppConfig.JWT.RefreshTokenExtensionHours) * time.Hour),
	}); err != nil {
		return nil, err
	}

	return &model.TokenPair{
		AccessToken:  signed,
		RefreshToken: refreshID,
		ExpiresAt:    expiresAt,
	}, nil
}

// ValidateAccess checks a presented bearer token: signature and expiry on
// the JWT itself, then the credential store record behind its jti. Any
// authentication failure comes back as common.ErrDenied without detail;
// storage failures are returned as-is so callers can tell a denied request
// from a broken one.
func (s *AuthService) ValidateAccess(encodedToken string) (*model.AuthUser, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(encodedToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJwtKey(), nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrDenied
	}

	record, err := s.tokenRepo.GetAccessTokenByID(claims.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDenied
		}
		return nil, err
	}
	if record.Revoked == model.TokenRevoked || time.Now().After(record.ExpiresAt) {
		return nil, common.ErrDenied
	}

	user, err := s.userRepo.GetUserByID(record.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDenied
		}
		return nil, err
	}
	if user.Deleted || user.Status == model.UserStatusBlocked {
		return nil, common.ErrDenied
	}

	return &model.AuthUser{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: claims.ID,
	}, nil
}

// Rotate exchanges a refresh token for a fresh pair. The old pair is revoked
// before the new one is issued; the revocation is conditional in the store,
// so a concurrent rotation with the same refresh token is denied rather than
// double issued.
func (s *AuthService) Rotate(userID string, refreshTokenID string) (*model.TokenPair, error) {
	_, err := s.tokenRepo.GetValidRefreshToken(refreshTokenID, userID, time.Now())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDenied
		}
		return nil, err
	}

	revoked, err := s.tokenRepo.RevokePairByRefreshToken(refreshTokenID)
	if err != nil {
		return nil, err
	}
	if !revoked {
		// A concurrent rotation won; this token is spent.
		return nil, common.ErrDenied
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrDenied
		}
		return nil, err
	}

	return s.IssuePair(user)
}

// RevokeSession revokes the access token with the given session id together
// with its linked refresh token. Revoking twice is a no-op.
func (s *AuthService) RevokeSession(sessionID string) error {
	return s.tokenRepo.RevokePairBySessionID(sessionID)
}

// Register creates an active account and logs it in.
func (s *AuthService) Register(req *model.RegisterRequest) (*model.User, *model.TokenPair, error) {
	_, err := s.userRepo.GetUserByEmail(req.Email)
	if err == nil {
		return nil, nil, common.ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, err
	}

	hashed, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		ID:       uuid.NewString(),
		NickName: req.NickName,
		Email:    req.Email,
		Password: hashed,
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login verifies the credentials and issues a pair. Every failure mode maps
// to the same denial.
func (s *AuthService) Login(email, password string) (*model.User, *model.TokenPair, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, common.ErrDenied
		}
		return nil, nil, err
	}
	if user.Deleted || user.Status == model.UserStatusBlocked {
		return nil, nil, common.ErrDenied
	}
	if !s.CheckPasswordHash(password, user.Password) {
		return nil, nil, common.ErrDenied
	}

	pair, err := s.IssuePair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}
