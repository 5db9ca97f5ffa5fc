package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pc-autobuild-be/internal/dto"
	"pc-autobuild-be/internal/pkg/serverutils"
	"pc-autobuild-be/pkg/autobuild"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeService struct {
	err         error
	requesterID string
	many        *dto.ResolveRequest
	reset       string
}

func (f *fakeService) ResolveMany(ctx context.Context, requesterID string, req *dto.ResolveRequest) (*dto.ResolveManyResponse, error) {
	f.requesterID, f.many = requesterID, req
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ResolveManyResponse{RequesterID: requesterID}, nil
}

func (f *fakeService) ResolveOne(ctx context.Context, requesterID string, req *dto.ResolveOneRequest) (*dto.ResolveOneResponse, error) {
	f.requesterID = requesterID
	if f.err != nil {
		return nil, f.err
	}
	return &dto.ResolveOneResponse{RequesterID: requesterID, Strategy: autobuild.StrategyPerformance}, nil
}

func (f *fakeService) Reset(ctx context.Context, requesterID string) error {
	f.reset = requesterID
	return f.err
}

func newApp(svc *fakeService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api", serverutils.RequesterMiddleware(testSecret))
	NewAutobuildController(svc).RegisterRoutes(api)
	return app
}

func post(t *testing.T, app *fiber.App, path, body string, headers map[string]string) (*http.Response, serverutils.Response) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope serverutils.Response
	require.NoError(t, json.Unmarshal(raw, &envelope), string(raw))
	return resp, envelope
}

func TestResolveUsesRequesterHeader(t *testing.T) {
	svc := &fakeService{}
	resp, body := post(t, newApp(svc), "/api/builds/v1/resolve",
		`{"text":"pc gaming 20 triệu","strategies":["cost"]}`,
		map[string]string{"X-Requester-Id": "guest-42"})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, body.Success)
	assert.Equal(t, "guest-42", svc.requesterID)
	assert.Equal(t, []string{"cost"}, svc.many.Strategies)
	assert.Equal(t, "guest-42", resp.Header.Get("X-Requester-Id"))
}

func TestResolvePrefersTokenClaim(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "user-7"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	svc := &fakeService{}
	resp, _ := post(t, newApp(svc), "/api/builds/v1/resolve-one", `{"text":"pc gaming 20 triệu"}`,
		map[string]string{"Authorization": "Bearer " + token, "X-Requester-Id": "ignored"})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "user-7", svc.requesterID)
}

func TestResolveGeneratesRequesterID(t *testing.T) {
	svc := &fakeService{}
	resp, _ := post(t, newApp(svc), "/api/builds/v1/resolve-one", `{"text":"pc gaming 20 triệu"}`,
		map[string]string{"Authorization": "Bearer not-a-token"})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, svc.requesterID, 36)
	assert.Equal(t, svc.requesterID, resp.Header.Get("X-Requester-Id"))
}

func TestResolveErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"malformed body", `{"text":`, nil, fiber.StatusBadRequest},
		{"text too short", `{"text":"a"}`, nil, fiber.StatusBadRequest},
		{"unknown strategy", `{"text":"pc 20tr","strategies":["cheapest"]}`, nil, fiber.StatusBadRequest},
		{"no budget", `{"text":"pc 20tr"}`, fmt.Errorf("parse: %w", autobuild.ErrInvalidIntent), fiber.StatusUnprocessableEntity},
		{"extractor down", `{"text":"pc 20tr"}`, fmt.Errorf("%w: 503", autobuild.ErrExtraction), fiber.StatusBadGateway},
		{"store down", `{"text":"pc 20tr"}`, fmt.Errorf("%w: HasEdge", autobuild.ErrGraphStore), fiber.StatusServiceUnavailable},
		{"timeout", `{"text":"pc 20tr"}`, fmt.Errorf("HasEdge: %w", context.DeadlineExceeded), fiber.StatusGatewayTimeout},
		{"unexpected", `{"text":"pc 20tr"}`, fmt.Errorf("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := post(t, newApp(&fakeService{err: tt.err}), "/api/builds/v1/resolve", tt.body, nil)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.False(t, body.Success)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestResetSessionForgetsRequester(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodDelete, "/api/builds/v1/session", nil)
	req.Header.Set("X-Requester-Id", "guest-9")

	resp, err := newApp(svc).Test(req, -1)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "guest-9", svc.reset)
}
