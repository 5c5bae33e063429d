package serverutils

import (
	"net/http/httptest"
	"strings"
	"testing"

	"ai-helpdesk-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validationApp() *fiber.App {
	app := fiber.New()
	app.Post("/upload", func(c *fiber.Ctx) error {
		var req dto.UploadDocumentRequest
		if err := ValidateRequest(c, &req); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func postJSON(t *testing.T, app *fiber.App, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/upload", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestValidateRequestAcceptsValidBody(t *testing.T) {
	app := validationApp()
	status := postJSON(t, app, `{"title":"Handbook","scope":"general","content":"hello"}`)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestValidateRequestRejectsUnknownScope(t *testing.T) {
	app := validationApp()
	status := postJSON(t, app, `{"title":"Handbook","scope":"secret","content":"hello"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestValidateRequestRejectsMissingFields(t *testing.T) {
	app := validationApp()
	status := postJSON(t, app, `{"scope":"general"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestValidateRequestRejectsMalformedJSON(t *testing.T) {
	app := validationApp()
	status := postJSON(t, app, `{"title":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
