package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/gradebook-api/internal/models"
	appErrors "github.com/noah-isme/gradebook-api/pkg/errors"
)

type authServiceMock struct {
	loginIP       string
	revokedToken  string
	revokedUserID string
}

func (m *authServiceMock) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "secret123" {
		return nil, appErrors.ErrInvalidCredentials
	}
	m.loginIP = req.IP
	return &models.LoginResponse{AccessToken: "access", RefreshToken: "refresh", User: models.UserInfo{ID: "u1", Email: req.Email}}, nil
}

func (m *authServiceMock) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	return &models.RefreshTokenResponse{AccessToken: "access-2", RefreshToken: "refresh-2"}, nil
}

func (m *authServiceMock) Logout(ctx context.Context, refreshToken string, userID string) error {
	m.revokedToken, m.revokedUserID = refreshToken, userID
	return nil
}

func (m *authServiceMock) Session(claims *models.JWTClaims) (*models.SessionInfo, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	return &models.SessionInfo{User: models.UserInfo{ID: claims.UserID}, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func TestAuthHandlerLogin(t *testing.T) {
	mock := &authServiceMock{}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/login", NewAuthHandler(mock).Login)

	w := doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "prof@example.com", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"access_token":"access"`)
	assert.NotEmpty(t, mock.loginIP)

	w = doJSON(r, http.MethodPost, "/auth/login", map[string]string{"email": "prof@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandlerLogoutRevokesForSessionUser(t *testing.T) {
	mock := &authServiceMock{}
	h := NewAuthHandler(mock)
	r := newTestRouter()
	r.POST("/auth/logout", h.Logout)
	r.GET("/auth/session", h.Session)

	w := doJSON(r, http.MethodPost, "/auth/logout", models.LogoutRequest{RefreshToken: "refresh"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "refresh", mock.revokedToken)
	assert.Equal(t, testUserID, mock.revokedUserID)

	w = doJSON(r, http.MethodGet, "/auth/session", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), testUserID)
}

func TestAuthHandlerSessionWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/auth/session", NewAuthHandler(&authServiceMock{}).Session)

	w := doJSON(r, http.MethodGet, "/auth/session", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
