package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mariafchaparro/tma-test/internal/config"
	"github.com/mariafchaparro/tma-test/internal/payment"
)

const (
	usdtMaster = "EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDs"
	senderAddr = "UQCTDVUzmAq6EfzYGEWpVOv16yo-H5Vw3B0rktcidz_ULLjm"
)

func newTestApp(t *testing.T) *fiber.App {
	cfg, err := config.Load()
	require.NoError(t, err)

	svc := payment.NewService(cfg, zap.NewNop(), payment.WithClock(func() time.Time {
		return time.UnixMilli(1700000000000)
	}))

	app := NewApp()
	SetupRouter(app, zap.NewNop(), NewHandler(svc, zap.NewNop()))
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp, out
}

func TestTransfer(t *testing.T) {
	app := newTestApp(t)

	resp, out := doJSON(t, app, http.MethodPost, "/api/v1/jetton/transfer",
		`{"destination":"`+usdtMaster+`","amount":"1.5","sender":"`+senderAddr+`"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload, _ := out["payload"].(string)
	assert.True(t, strings.HasPrefix(payload, "te6cck"), payload)

	tx, ok := out["transaction"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(1700000360), tx["validUntil"])

	msgs, ok := tx["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)

	msg := msgs[0].(map[string]any)
	assert.Equal(t, usdtMaster, msg["address"])
	assert.Equal(t, "100000000", msg["amount"])
	assert.Equal(t, payload, msg["payload"])
}

func TestTransfer_BadRequest(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		body string
	}{
		{"not json", `{`},
		{"missing sender", `{"destination":"` + usdtMaster + `","amount":"1"}`},
		{"zero amount", `{"destination":"` + usdtMaster + `","amount":"0","sender":"` + senderAddr + `"}`},
		{"negative amount", `{"destination":"` + usdtMaster + `","amount":"-2","sender":"` + senderAddr + `"}`},
		{"long comment", `{"destination":"` + usdtMaster + `","amount":"1","sender":"` + senderAddr + `","comment":"` + strings.Repeat("z", 124) + `"}`},
		{"bad checksum", `{"destination":"EQCxE6mUtQJKFnGfaROTKOt1lZbDiiX1kCixRv7Nw2Id_sDt","amount":"1","sender":"` + senderAddr + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := doJSON(t, app, http.MethodPost, "/api/v1/jetton/transfer", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.NotEmpty(t, out["error"])
			assert.NotEmpty(t, out["request_id"])
		})
	}
}

func TestAddress(t *testing.T) {
	app := newTestApp(t)

	resp, out := doJSON(t, app, http.MethodGet, "/api/v1/address/"+usdtMaster, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, usdtMaster, out["address"])
	assert.Equal(t, "0:b113a994b5024a16719f69139328eb759596c38a25f59028b146fecdc3621dfe", out["raw"])
	assert.Equal(t, float64(0), out["workchain"])
	assert.Equal(t, true, out["bounceable"])
	assert.Equal(t, false, out["testnet"])
	assert.Equal(t, "EQCxE6..._sDs", out["short"])

	resp, out = doJSON(t, app, http.MethodGet, "/api/v1/address/EQCxE6mU", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, out["error"])
}

func TestRequestID(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get("X-Request-ID"), 36)
}

func TestMetrics(t *testing.T) {
	app := newTestApp(t)

	doJSON(t, app, http.MethodPost, "/api/v1/jetton/transfer",
		`{"destination":"`+usdtMaster+`","amount":"1","sender":"`+senderAddr+`"}`)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `jetton_transfer_payloads_total{result="ok"}`)
}

func TestNotFound(t *testing.T) {
	app := newTestApp(t)

	resp, out := doJSON(t, app, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotEmpty(t, out["error"])
}
