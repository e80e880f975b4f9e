package handler

import (
	"net/http/httptest"
	"testing"

	"legalaid-intake-be/internal/pkg/logger"
	"legalaid-intake-be/internal/pkg/serverutils"
	internalWS "legalaid-intake-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWs_Handshake(t *testing.T) {
	const secret = "ws-secret"
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	app := fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandler})
	NewDashboardWsHandler(hub, secret, logger.NewNopLogger()).RegisterRoutes(app)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": uuid.NewString()}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"missing token", "/ws", "", fiber.StatusUnauthorized},
		{"bad token", "/ws?token=nope", "", fiber.StatusUnauthorized},
		{"query token without upgrade", "/ws?token=" + token, "", fiber.StatusUpgradeRequired},
		{"header token without upgrade", "/ws", "Bearer " + token, fiber.StatusUpgradeRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
