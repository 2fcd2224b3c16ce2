package server

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"motion/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "motion-api"
	tokenAudience = "motion-client"

	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errInvalidToken = errors.New("Invalid or expired token")

// ObtainTokenPair handles POST /token. It authenticates the user by email
// and password and issues an access/refresh token pair.
func (s *Server) ObtainTokenPair(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	user, err := s.userRepo.GetByEmail(c.Context(), req.Email)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if user == nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); cmpErr != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid credentials"))
	}

	access, err := s.generateToken(user.ID, tokenTypeAccess, s.config.AccessTokenLifetime)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}
	refresh, err := s.generateToken(user.ID, tokenTypeRefresh, s.config.RefreshTokenLifetime)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"access":  access,
		"refresh": refresh,
	})
}

// RefreshToken handles POST /token/refresh. It exchanges a valid refresh
// token for a fresh access token.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Refresh == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Refresh token is required"))
	}

	claims, err := s.parseToken(req.Refresh)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}
	if tokenType, _ := claims["token_type"].(string); tokenType != tokenTypeRefresh {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Refresh token required"))
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError(err.Error()))
	}

	// The user may have been deleted since the refresh token was issued.
	exists, err := s.userRepo.Exists(c.Context(), userID)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	if !exists {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	access, err := s.generateToken(userID, tokenTypeAccess, s.config.AccessTokenLifetime)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{
		"access": access,
	})
}

// generateToken creates a signed JWT of the given type for the user.
func (s *Server) generateToken(userID uint, tokenType string, lifetime time.Duration) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":        strconv.FormatUint(uint64(userID), 10),
		"token_type": tokenType,
		"iss":        tokenIssuer,
		"aud":        tokenAudience,
		"exp":        now.Add(lifetime).Unix(),
		"iat":        now.Unix(),
		"nbf":        now.Unix(),
		"jti":        s.generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// generateJTI creates a unique JWT ID to prevent replay attacks
func (s *Server) generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
