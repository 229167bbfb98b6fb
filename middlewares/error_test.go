package middlewares_test

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"billing-backend/invoicing"
	"billing-backend/middlewares"
	"billing-backend/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_Status(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "tea"), fiber.StatusTeapot},
		{"validation", &invoicing.ValidationError{Missing: []string{"customerId"}}, fiber.StatusBadRequest},
		{"not configured", fmt.Errorf("%w: performa", invoicing.ErrNotConfigured), fiber.StatusBadRequest},
		{"invalid argument", invoicing.ErrInvalidArgument, fiber.StatusBadRequest},
		{"unsupported upload", storage.ErrUnsupportedType, fiber.StatusBadRequest},
		{"counter missing", invoicing.ErrCounterNotFound, fiber.StatusNotFound},
		{"document missing", invoicing.ErrDocumentNotFound, fiber.StatusNotFound},
		{"unknown module", invoicing.ErrUnknownModule, fiber.StatusNotFound},
		{"conflict", fmt.Errorf("%w: PI-3", invoicing.ErrConflict), fiber.StatusConflict},
		{"counter exhausted", fmt.Errorf("%w: performa", invoicing.ErrCounterExhausted), fiber.StatusConflict},
		{"persistence", invoicing.ErrPersistence, fiber.StatusInternalServerError},
		{"inconsistency", invoicing.ErrInconsistency, fiber.StatusInternalServerError},
		{"unknown", fmt.Errorf("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, _ := logtest.NewNullLogger()
			app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(log)})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestErrorHandler_ValidationBody(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(log)})
	app.Get("/", func(c *fiber.Ctx) error {
		return &invoicing.ValidationError{Missing: []string{"customerId", "productIds"}}
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)

	var body struct {
		Message string   `json:"message"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"customerId", "productIds"}, body.Missing)
	assert.Contains(t, body.Message, "customerId, productIds")
}

func TestErrorHandler_LogsInconsistency(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	app := fiber.New(fiber.Config{ErrorHandler: middlewares.ErrorHandler(log)})
	app.Post("/performa/create", func(c *fiber.Ctx) error {
		return fmt.Errorf("%w: performa PI-9", invoicing.ErrInconsistency)
	})

	_, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/performa/create", nil))
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "/performa/create", entry.Data["path"])
}
