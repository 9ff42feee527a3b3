package generate

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"chartcraft/internal/config"
	"chartcraft/pkg/recommendation"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) (*fiber.App, *fixture) {
	t.Helper()
	f := newFixture(t)
	app := fiber.New()
	NewGenerateApi(NewGenerateController(f.svc), &config.Config{SkipAuth: true}).Setup(app)
	return app, f
}

func call(t *testing.T, app *fiber.App, method, target, body string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", raw, err)
	}
	return resp.StatusCode, out
}

func TestGenerateEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := call(t, app, http.MethodPost, "/api/charts/generate", `{"datasetId":"ds1"}`)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, body %v", status, body)
	}
	if body["success"] != true || len(body["charts"].([]any)) != 2 || len(body["rejected"].([]any)) != 1 {
		t.Errorf("body = %v", body)
	}

	status, body = call(t, app, http.MethodGet, "/api/datasets/ds1/summary", "")
	if status != fiber.StatusOK || len(body["summary"].([]any)) != 2 {
		t.Errorf("summary = %d %v", status, body)
	}
}

func TestGenerateEndpointErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		recErr error
		status int
	}{
		{"missing id", `{}`, nil, fiber.StatusBadRequest},
		{"invalid body", `{`, nil, fiber.StatusBadRequest},
		{"unknown dataset", `{"datasetId":"nope"}`, nil, fiber.StatusNotFound},
		{"no api key", `{"datasetId":"ds1"}`, recommendation.ErrNotConfigured, fiber.StatusServiceUnavailable},
		{"provider down", `{"datasetId":"ds1"}`, &recommendation.APIError{StatusCode: 500, Message: "overloaded"}, fiber.StatusBadGateway},
		{"unexpected failure", `{"datasetId":"ds1"}`, errors.New("disk full"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, f := newTestApp(t)
			f.rec.err = tt.recErr
			status, body := call(t, app, http.MethodPost, "/api/charts/generate", tt.body)
			if status != tt.status {
				t.Errorf("status = %d, want %d (%v)", status, tt.status, body)
			}
		})
	}
}
