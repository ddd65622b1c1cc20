package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"lingo/config"
	"lingo/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code      int             `json:"code"`
	Result    json.RawMessage `json:"result"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"errorCode"`
}

func call(t *testing.T, app *fiber.App, path, token string) envelope {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))
	assert.Equal(t, resp.StatusCode, env.Code)
	return env
}

func TestJWTAndRoles(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: "test-secret"}
	app := fiber.New()
	app.Get("/me", JWTMiddleware, func(c *fiber.Ctx) error {
		actor, _ := Actor(c)
		return JsonResponse(c, fiber.StatusOK, "ok", actor)
	})
	app.Get("/admin", JWTMiddleware, RequireRole("ADMIN"), func(c *fiber.Ctx) error {
		return JsonResponse(c, fiber.StatusOK, "ok", nil)
	})

	token, err := GenerateJWT(7, "Lan", "CREATOR", "lan@example.com")
	require.NoError(t, err)

	env := call(t, app, "/me", token)
	assert.Equal(t, 200, env.Code)
	assert.JSONEq(t, `{"ID":7,"Role":"CREATOR"}`, string(env.Result))

	assert.Equal(t, 403, call(t, app, "/admin", token).Code)
	assert.Equal(t, 401, call(t, app, "/me", "").Code)
	assert.Equal(t, 401, call(t, app, "/me", "not.a.token").Code)
}

func TestErrorResponse(t *testing.T) {
	app := fiber.New()
	app.Get("/:kind", func(c *fiber.Ctx) error {
		switch c.Params("kind") {
		case "validation":
			return ErrorResponse(c, services.ValidationErrors{{Field: "price", Message: "Price must be set!"}})
		case "conflict":
			return ErrorResponse(c, services.ErrStaleRevision)
		case "fiber":
			return ErrorResponse(c, fiber.ErrBadRequest)
		}
		return ErrorResponse(c, errors.New("db exploded"))
	})

	env := call(t, app, "/validation", "")
	assert.Equal(t, 422, env.Code)
	assert.JSONEq(t, `{"price":"Price must be set!"}`, string(env.Result))

	env = call(t, app, "/conflict", "")
	assert.Equal(t, 409, env.Code)
	assert.Equal(t, "STALE_REVISION", env.ErrorCode)

	assert.Equal(t, 400, call(t, app, "/fiber", "").Code)

	env = call(t, app, "/other", "")
	assert.Equal(t, 500, env.Code)
	assert.Equal(t, GenericErrorMessage, env.Message)
	assert.NotContains(t, env.Message, "exploded")

}
