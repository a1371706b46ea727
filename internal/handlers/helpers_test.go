package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/cyclepeak/internal/aggregation"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/services"
)

func newTestHandler() *Handler {
	logger := logging.NewNop()
	svc := services.NewPeakService(logger,
		aggregation.NewReducer(aggregation.DefaultReducerConfig(), logger),
		aggregation.NewPassRegistry(2),
		services.PeakServiceConfig{Location: time.UTC, MaxObservations: 10})
	return New(logger, svc)
}

func newTestApp() *fiber.App {
	h := newTestHandler()
	app := fiber.New()
	v1 := app.Group("/v1")
	v1.Post("/peak/:kind", h.ComputePeak)
	v1.Post("/passes", h.CreatePass)
	v1.Get("/passes", h.ListPasses)
	v1.Get("/passes/:id", h.GetPass)
	v1.Post("/passes/:id/observations", h.ObservePass)
	v1.Get("/passes/:id/peak", h.PassPeak)
	v1.Delete("/passes/:id", h.DeletePass)
	app.Use(h.NotFound)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}
