package handler

import (
	"database/sql"
	"os"
	"sms-relay-api/config"
	"sms-relay-api/logger"
	"sms-relay-api/model"
	"testing"
	"time"
)

// TestMain sets up the logger and token config for the handler package.
func TestMain(m *testing.M) {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "test-secret-key"
	config.AppConfig.JWT.AccessTokenExpiresMinutes = 60
	config.AppConfig.JWT.RefreshTokenExtensionHours = 720

	os.Exit(m.Run())
}

// fakeUserRepo is an in-memory IUserRepository.
type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) CreateUser(user *model.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetUserByID(id string) (*model.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) GetAllUsers() ([]*model.User, error) {
	var users []*model.User
	for _, u := range r.users {
		users = append(users, u)
	}
	return users, nil
}

func (r *fakeUserRepo) UpdateUserRole(userID string, newRole string) error {
	if u, ok := r.users[userID]; ok {
		u.Role = model.Role(newRole)
		return nil
	}
	return sql.ErrNoRows
}

// fakeTokenRepo is an in-memory ITokenRepository.
type fakeTokenRepo struct {
	accessTokens  map[string]*model.AccessToken
	refreshTokens map[string]*model.RefreshToken
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{
		accessTokens:  make(map[string]*model.AccessToken),
		refreshTokens: make(map[string]*model.RefreshToken),
	}
}

func (r *fakeTokenRepo) CreateAccessToken(token *model.AccessToken) error {
	r.accessTokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepo) CreateRefreshToken(token *model.RefreshToken) error {
	r.refreshTokens[token.ID] = token
	return nil
}

func (r *fakeTokenRepo) GetAccessTokenByID(id string) (*model.AccessToken, error) {
	if t, ok := r.accessTokens[id]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeTokenRepo) GetValidRefreshToken(refreshTokenID string, userID string, now time.Time) (*model.RefreshToken, error) {
	rt, ok := r.refreshTokens[refreshTokenID]
	if !ok || rt.Revoked == model.TokenRevoked || !rt.ExpiresAt.After(now) {
		return nil, sql.ErrNoRows
	}
	act, ok := r.accessTokens[rt.AccessTokenID]
	if !ok || act.UserID != userID {
		return nil, sql.ErrNoRows
	}
	return rt, nil
}

func (r *fakeTokenRepo) RevokePairBySessionID(sessionID string) error {
	if act, ok := r.accessTokens[sessionID]; ok {
		act.Revoked = model.TokenRevoked
	}
	for _, rt := range r.refreshTokens {
		if rt.AccessTokenID == sessionID {
			rt.Revoked = model.TokenRevoked
		}
	}
	return nil
}

func (r *fakeTokenRepo) RevokePairByRefreshToken(refreshTokenID string) (bool, error) {
	rt, ok := r.refreshTokens[refreshTokenID]
	if !ok || rt.Revoked == model.TokenRevoked {
		return false, nil
	}
	rt.Revoked = model.TokenRevoked
	if act, ok := r.accessTokens[rt.AccessTokenID]; ok {
		act.Revoked = model.TokenRevoked
	}
	return true, nil
}

// fakeMessageRepo is an in-memory IMessageRepository covering what the
// ingestion path touches.
type fakeMessageRepo struct {
	messages map[string]*model.Message
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{messages: make(map[string]*model.Message)}
}

func (r *fakeMessageRepo) CreateMessage(message *model.Message) error {
	message.CreatedAt = time.Now()
	message.UpdatedAt = message.CreatedAt
	r.messages[message.ID] = message
	return nil
}

func (r *fakeMessageRepo) GetMessageByID(id string) (*model.Message, error) {
	if m, ok := r.messages[id]; ok {
		return m, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeMessageRepo) SetOwnership(id string, userID *string, isVisible bool) error {
	if m, ok := r.messages[id]; ok {
		m.UserID = userID
		m.IsVisible = isVisible
		return nil
	}
	return sql.ErrNoRows
}

func (r *fakeMessageRepo) GetMessagesByUserID(string, int, int) ([]*model.Message, error) {
	return nil, nil
}
func (r *fakeMessageRepo) GetAllMessages(int, int) ([]*model.Message, error) { return nil, nil }
func (r *fakeMessageRepo) UpdateMessage(string, *bool, *bool) error          { return nil }
func (r *fakeMessageRepo) SoftDeleteMessage(string) error                    { return nil }

// fakeLineRepo is an in-memory ILineRepository keyed by phone number.
type fakeLineRepo struct {
	lines map[string]*model.Line
}

func newFakeLineRepo() *fakeLineRepo {
	return &fakeLineRepo{lines: make(map[string]*model.Line)}
}

func (r *fakeLineRepo) CreateLine(line *model.Line) error {
	r.lines[line.PhoneNumber] = line
	return nil
}

func (r *fakeLineRepo) GetLineByPhoneNumber(phoneNumber string) (*model.Line, error) {
	if l, ok := r.lines[phoneNumber]; ok {
		return l, nil
	}
	return nil, sql.ErrNoRows
}

func (r *fakeLineRepo) GetLineByID(string) (*model.Line, error) { return nil, sql.ErrNoRows }
func (r *fakeLineRepo) GetAllLines() ([]*model.Line, error)     { return nil, nil }
func (r *fakeLineRepo) UpdateLine(*model.Line) error            { return nil }
func (r *fakeLineRepo) RestoreLine(*model.Line) error           { return nil }
func (r *fakeLineRepo) SoftDeleteLine(string) error             { return nil }
