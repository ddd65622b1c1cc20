package validators

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"lingo/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemRequest struct {
	Text string `json:"text" validate:"required"`
}

type listRequest struct {
	BasePrice float64       `json:"basePrice" validate:"gte=0"`
	Level     string        `json:"level" validate:"omitempty,oneof=BEGINNER ADVANCED"`
	Items     []itemRequest `json:"items" validate:"min=1,dive"`
}

func TestStructKeysAndMessages(t *testing.T) {
	errs := Struct(&listRequest{BasePrice: -1, Level: "EXPERT", Items: []itemRequest{{Text: "ok"}, {}}})
	assert.Equal(t, map[string]string{
		"basePrice":    "Base price must be at least 0!",
		"level":        "Level must be one of BEGINNER, ADVANCED!",
		"items.1.text": "Text is required!",
	}, errs)

	errs = Struct(&listRequest{})
	assert.Equal(t, "Items must have at least 1 items!", errs["items"])

	anonymous := struct {
		Name string `json:"name" validate:"required"`
	}{}
	assert.Equal(t, map[string]string{"name": "Name is required!"}, Struct(&anonymous))

	assert.Empty(t, Struct(&listRequest{Items: []itemRequest{{Text: "ok"}}}))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Base price", label("basePrice"))
	assert.Equal(t, "Instruction language code", label("instructionLanguageCode"))
	assert.Equal(t, "Value", label(""))
}

func get(t *testing.T, app *fiber.App, path string) (int, json.RawMessage) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env struct {
		Result json.RawMessage `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &env))
	return resp.StatusCode, env.Result
}

func TestParamIDAndPagination(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:itemId", Pagination(), func(c *fiber.Ctx) error {
		id, err := ParamID(c, "itemId")
		if err != nil {
			return middleware.ErrorResponse(c, err)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, "ok", fiber.Map{"id": id, "page": Page(c).Normalized()})
	})

	status, result := get(t, app, "/items/12?page=2&size=5")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"id":12,"page":{"Page":2,"Size":5}}`, string(result))

	status, result = get(t, app, "/items/3")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `{"id":3,"page":{"Page":1,"Size":10}}`, string(result))

	status, _ = get(t, app, "/items/0")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = get(t, app, "/items/abc")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, result = get(t, app, "/items/1?size=500")
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, string(result), "size")
}
