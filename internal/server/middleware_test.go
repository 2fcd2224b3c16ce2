package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthRequired(t *testing.T) {
	s := newTestServer(new(MockUserRepository), nil, nil, nil)

	access, err := s.generateToken(42, tokenTypeAccess, time.Hour)
	require.NoError(t, err)
	refresh, err := s.generateToken(42, tokenTypeRefresh, time.Hour)
	require.NoError(t, err)
	expired, err := s.generateToken(42, tokenTypeAccess, -time.Hour)
	require.NoError(t, err)

	otherIssuer := newTestServer(new(MockUserRepository), nil, nil, nil)
	otherIssuer.config.JWTSecret = "a-different-secret"
	forged, err := otherIssuer.generateToken(42, tokenTypeAccess, time.Hour)
	require.NoError(t, err)

	app := fiber.New()
	var seenUserID uint
	app.Get("/protected", s.AuthRequired(), func(c *fiber.Ctx) error {
		seenUserID = c.Locals("userID").(uint)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "Valid access token", header: "Bearer " + access, expectedStatus: http.StatusOK},
		{name: "Missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "Malformed header", header: "Token " + access, expectedStatus: http.StatusUnauthorized},
		{name: "Refresh token rejected", header: "Bearer " + refresh, expectedStatus: http.StatusUnauthorized},
		{name: "Expired token", header: "Bearer " + expired, expectedStatus: http.StatusUnauthorized},
		{name: "Wrong signature", header: "Bearer " + forged, expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}

	assert.Equal(t, uint(42), seenUserID)
}

func TestAdminRequired(t *testing.T) {
	tests := []struct {
		name           string
		userID         uint
		isAdmin        bool
		expectedStatus int
	}{
		{name: "Admin passes", userID: 1, isAdmin: true, expectedStatus: http.StatusOK},
		{name: "Regular user forbidden", userID: 2, isAdmin: false, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			mockRepo := new(MockUserRepository)
			mockRepo.On("IsAdmin", mock.Anything, tt.userID).Return(tt.isAdmin, nil)

			s := newTestServer(mockRepo, nil, nil, nil)
			app.Use(asUser(tt.userID))
			app.Get("/admin", s.AdminRequired(), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			resp, _ := app.Test(req)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestHealthCheck(t *testing.T) {
	app := fiber.New()
	s := newTestServer(nil, nil, nil, nil)
	app.Get("/health", s.HealthCheck)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	buf := make([]byte, 8)
	n, _ := resp.Body.Read(buf)
	assert.Equal(t, "ok", string(buf[:n]))
}
