package service

import (
	"database/sql"
	"sms-relay-api/common"
	"sms-relay-api/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}
func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetUserByID(id string) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}
func (m *mockUserRepo) GetAllUsers() ([]*model.User, error) {
	args := m.Called()
	return args.Get(0).([]*model.User), args.Error(1)
}
func (m *mockUserRepo) UpdateUserRole(userID string, newRole string) error {
	args := m.Called(userID, newRole)
	return args.Error(0)
}

type mockTokenRepo struct{ mock.Mock }

func (m *mockTokenRepo) CreateAccessToken(token *model.AccessToken) error {
	args := m.Called(token)
	return args.Error(0)
}
func (m *mockTokenRepo) CreateRefreshToken(token *model.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}
func (m *mockTokenRepo) GetAccessTokenByID(id string) (*model.AccessToken, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessToken), args.Error(1)
}
func (m *mockTokenRepo) GetValidRefreshToken(refreshTokenID string, userID string, now time.Time) (*model.RefreshToken, error) {
	args := m.Called(refreshTokenID, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RefreshToken), args.Error(1)
}
func (m *mockTokenRepo) RevokePairBySessionID(sessionID string) error {
	args := m.Called(sessionID)
	return args.Error(0)
}
func (m *mockTokenRepo) RevokePairByRefreshToken(refreshTokenID string) (bool, error) {
	args := m.Called(refreshTokenID)
	return args.Bool(0), args.Error(1)
}

func activeUser() *model.User {
	return &model.User{
		ID:       "11111111-1111-1111-1111-111111111111",
		NickName: "tester",
		Email:    "tester@example.com",
		Role:     model.RoleUser,
		Status:   model.UserStatusActive,
	}
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and
// verification work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	authService := NewAuthService(nil, nil)
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	if err != nil {
		t.Fatalf("authService.HashPassword() returned an unexpected error: %v", err)
	}
	if hashedPassword == password {
		t.Errorf("Hashed password should not be the same as the original password.")
	}

	if !authService.CheckPasswordHash(password, hashedPassword) {
		t.Errorf("CheckPasswordHash() should have returned true for a matching password.")
	}
	if authService.CheckPasswordHash("notMyPassword", hashedPassword) {
		t.Errorf("CheckPasswordHash() should have returned false for a non-matching password.")
	}
}

func TestAuthService_IssuePair(t *testing.T) {
	mockUsers := new(mockUserRepo)
	mockTokens := new(mockTokenRepo)
	authService := NewAuthService(mockUsers, mockTokens)
	user := activeUser()

	var issuedAccess *model.AccessToken
	var issuedRefresh *model.RefreshToken
	mockTokens.On("CreateAccessToken", mock.MatchedBy(func(tok *model.AccessToken) bool {
		issuedAccess = tok
		return tok.UserID == user.ID && len(tok.ID) == 64
	})).Return(nil).Once()
	mockTokens.On("CreateRefreshToken", mock.MatchedBy(func(tok *model.RefreshToken) bool {
		issuedRefresh = tok
		return len(tok.ID) == 128
	})).Return(nil).Once()

	pair, err := authService.IssuePair(user)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, issuedRefresh.ID, pair.RefreshToken)
	assert.Equal(t, issuedAccess.ID, issuedRefresh.AccessTokenID)
	// Refresh expiry is the access expiry plus the configured extension.
	assert.Equal(t, issuedAccess.ExpiresAt.Add(720*time.Hour), issuedRefresh.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), pair.ExpiresAt, 5*time.Second)
	mockTokens.AssertExpectations(t)
}

func TestAuthService_ValidateAccess(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		var issued *model.AccessToken
		mockTokens.On("CreateAccessToken", mock.MatchedBy(func(tok *model.AccessToken) bool {
			issued = tok
			return true
		})).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()

		pair, err := authService.IssuePair(user)
		assert.NoError(t, err)

		mockTokens.On("GetAccessTokenByID", issued.ID).Return(issued, nil).Once()
		mockUsers.On("GetUserByID", user.ID).Return(user, nil).Once()

		authUser, err := authService.ValidateAccess(pair.AccessToken)

		assert.NoError(t, err)
		assert.Equal(t, user.ID, authUser.ID)
		assert.Equal(t, issued.ID, authUser.SessionID)
		mockTokens.AssertExpectations(t)
	})

	t.Run("garbage token is denied", func(t *testing.T) {
		authService := NewAuthService(new(mockUserRepo), new(mockTokenRepo))

		_, err := authService.ValidateAccess("not-a-jwt")

		assert.ErrorIs(t, err, common.ErrDenied)
	})

	t.Run("missing store record is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		mockTokens.On("CreateAccessToken", mock.Anything).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()
		pair, err := authService.IssuePair(user)
		assert.NoError(t, err)

		mockTokens.On("GetAccessTokenByID", mock.Anything).Return(nil, sql.ErrNoRows).Once()

		_, err = authService.ValidateAccess(pair.AccessToken)

		assert.ErrorIs(t, err, common.ErrDenied)
	})

	t.Run("revoked record is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		var issued *model.AccessToken
		mockTokens.On("CreateAccessToken", mock.MatchedBy(func(tok *model.AccessToken) bool {
			issued = tok
			return true
		})).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()
		pair, err := authService.IssuePair(user)
		assert.NoError(t, err)

		revoked := *issued
		revoked.Revoked = model.TokenRevoked
		mockTokens.On("GetAccessTokenByID", issued.ID).Return(&revoked, nil).Once()

		_, err = authService.ValidateAccess(pair.AccessToken)

		assert.ErrorIs(t, err, common.ErrDenied)
		mockUsers.AssertNotCalled(t, "GetUserByID")
	})

	t.Run("expired record is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		var issued *model.AccessToken
		mockTokens.On("CreateAccessToken", mock.MatchedBy(func(tok *model.AccessToken) bool {
			issued = tok
			return true
		})).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()
		pair, err := authService.IssuePair(user)
		assert.NoError(t, err)

		expired := *issued
		expired.ExpiresAt = time.Now().Add(-time.Minute)
		mockTokens.On("GetAccessTokenByID", issued.ID).Return(&expired, nil).Once()

		_, err = authService.ValidateAccess(pair.AccessToken)

		assert.ErrorIs(t, err, common.ErrDenied)
	})

	t.Run("blocked user is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		var issued *model.AccessToken
		mockTokens.On("CreateAccessToken", mock.MatchedBy(func(tok *model.AccessToken) bool {
			issued = tok
			return true
		})).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()
		pair, err := authService.IssuePair(user)
		assert.NoError(t, err)

		blocked := *user
		blocked.Status = model.UserStatusBlocked
		mockTokens.On("GetAccessTokenByID", issued.ID).Return(issued, nil).Once()
		mockUsers.On("GetUserByID", user.ID).Return(&blocked, nil).Once()

		_, err = authService.ValidateAccess(pair.AccessToken)

		assert.ErrorIs(t, err, common.ErrDenied)
	})
}

func TestAuthService_Rotate(t *testing.T) {
	refreshID := "refresh-token-id"

	t.Run("success revokes old pair and issues a new one", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		mockTokens.On("GetValidRefreshToken", refreshID, user.ID, mock.Anything).
			Return(&model.RefreshToken{ID: refreshID, AccessTokenID: "old-jti"}, nil).Once()
		mockTokens.On("RevokePairByRefreshToken", refreshID).Return(true, nil).Once()
		mockUsers.On("GetUserByID", user.ID).Return(user, nil).Once()
		mockTokens.On("CreateAccessToken", mock.Anything).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()

		pair, err := authService.Rotate(user.ID, refreshID)

		assert.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEqual(t, refreshID, pair.RefreshToken)
		mockTokens.AssertExpectations(t)
	})

	t.Run("invalid refresh token is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)

		mockTokens.On("GetValidRefreshToken", refreshID, "user-1", mock.Anything).
			Return(nil, sql.ErrNoRows).Once()

		_, err := authService.Rotate("user-1", refreshID)

		assert.ErrorIs(t, err, common.ErrDenied)
		mockTokens.AssertNotCalled(t, "RevokePairByRefreshToken")
	})

	t.Run("losing the revocation race is denied, not double issued", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)
		user := activeUser()

		mockTokens.On("GetValidRefreshToken", refreshID, user.ID, mock.Anything).
			Return(&model.RefreshToken{ID: refreshID, AccessTokenID: "old-jti"}, nil).Once()
		// The concurrent rotation already flipped the revoked flag.
		mockTokens.On("RevokePairByRefreshToken", refreshID).Return(false, nil).Once()

		_, err := authService.Rotate(user.ID, refreshID)

		assert.ErrorIs(t, err, common.ErrDenied)
		mockTokens.AssertNotCalled(t, "CreateAccessToken")
	})
}

func TestAuthService_RevokeSession(t *testing.T) {
	mockTokens := new(mockTokenRepo)
	authService := NewAuthService(new(mockUserRepo), mockTokens)

	mockTokens.On("RevokePairBySessionID", "jti-1").Return(nil).Twice()

	// Revoking twice is a no-op, not an error.
	assert.NoError(t, authService.RevokeSession("jti-1"))
	assert.NoError(t, authService.RevokeSession("jti-1"))
	mockTokens.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	password := "correct-horse-battery"

	t.Run("wrong password is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		authService := NewAuthService(mockUsers, new(mockTokenRepo))

		user := activeUser()
		hash, err := authService.HashPassword(password)
		assert.NoError(t, err)
		user.Password = hash

		mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()

		_, _, err = authService.Login(user.Email, "wrong")

		assert.ErrorIs(t, err, common.ErrDenied)
	})

	t.Run("unknown email is denied", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		authService := NewAuthService(mockUsers, new(mockTokenRepo))

		mockUsers.On("GetUserByEmail", "nobody@example.com").Return(nil, sql.ErrNoRows).Once()

		_, _, err := authService.Login("nobody@example.com", password)

		assert.ErrorIs(t, err, common.ErrDenied)
	})

	t.Run("success issues a pair", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)

		user := activeUser()
		hash, err := authService.HashPassword(password)
		assert.NoError(t, err)
		user.Password = hash

		mockUsers.On("GetUserByEmail", user.Email).Return(user, nil).Once()
		mockTokens.On("CreateAccessToken", mock.Anything).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()

		loggedIn, pair, err := authService.Login(user.Email, password)

		assert.NoError(t, err)
		assert.Equal(t, user.ID, loggedIn.ID)
		assert.NotEmpty(t, pair.AccessToken)
		mockTokens.AssertExpectations(t)
	})
}

func TestAuthService_Register(t *testing.T) {
	t.Run("duplicate email is a conflict", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		authService := NewAuthService(mockUsers, new(mockTokenRepo))

		mockUsers.On("GetUserByEmail", "taken@example.com").Return(activeUser(), nil).Once()

		_, _, err := authService.Register(&model.RegisterRequest{
			NickName: "dup", Email: "taken@example.com", Password: "password123",
		})

		assert.ErrorIs(t, err, common.ErrConflict)
		mockUsers.AssertNotCalled(t, "CreateUser")
	})

	t.Run("success creates an active user and a pair", func(t *testing.T) {
		mockUsers := new(mockUserRepo)
		mockTokens := new(mockTokenRepo)
		authService := NewAuthService(mockUsers, mockTokens)

		mockUsers.On("GetUserByEmail", "new@example.com").Return(nil, sql.ErrNoRows).Once()
		mockUsers.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			return u.Status == model.UserStatusActive && u.Role == model.RoleUser && u.Password != "password123"
		})).Return(nil).Once()
		mockTokens.On("CreateAccessToken", mock.Anything).Return(nil).Once()
		mockTokens.On("CreateRefreshToken", mock.Anything).Return(nil).Once()

		user, pair, err := authService.Register(&model.RegisterRequest{
			NickName: "new", Email: "new@example.com", Password: "password123",
		})

		assert.NoError(t, err)
		assert.NotEmpty(t, user.ID)
		assert.NotEmpty(t, pair.RefreshToken)
		mockUsers.AssertExpectations(t)
	})
}
