package server

import (
	"context"
	"strconv"
	"strings"

	"motion/internal/middleware"
	"motion/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuthRequired returns the authentication middleware. It validates the
// Bearer token, checks issuer/audience, and requires an access token
// (refresh tokens are only accepted by the refresh endpoint).
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		claims, err := s.parseToken(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		if tokenType, _ := claims["token_type"].(string); tokenType != tokenTypeAccess {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Access token required"))
		}

		userID, err := userIDFromClaims(claims)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		// Store user ID in locals and sync it to the request context for
		// the logger and downstream services.
		c.Locals("userID", userID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.userRepo.IsAdmin(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// parseToken validates signature, expiry, issuer and audience, returning
// the claims on success.
func (s *Server) parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errInvalidToken
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return nil, errInvalidToken
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return nil, errInvalidToken
	}

	return claims, nil
}

// userIDFromClaims extracts the user ID from the subject claim.
func userIDFromClaims(claims jwt.MapClaims) (uint, error) {
	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, errInvalidToken
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, errInvalidToken
	}
	return uint(userID), nil
}
