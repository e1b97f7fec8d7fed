package whatsapp

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/codegiant07/habit-tracker-bot/internal/habit"
	"github.com/codegiant07/habit-tracker-bot/internal/stats"
	"github.com/codegiant07/habit-tracker-bot/internal/store"
)

type sentMessage struct {
	to   string
	body string
}

type fakeSender struct {
	sent []sentMessage
}

func (f *fakeSender) SendText(_ context.Context, to, body string) error {
	f.sent = append(f.sent, sentMessage{to: to, body: body})
	return nil
}

func newTestServer(t *testing.T) (*echo.Echo, *fakeSender) {
	t.Helper()
	repo, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })

	sender := &fakeSender{}
	wh := NewWebhook("secret-token", habit.New(repo), stats.New(repo), sender, zaptest.NewLogger(t))

	e := echo.New()
	wh.Register(e)
	return e, sender
}

func inboundBody(from, name, text string) string {
	return fmt.Sprintf(`{
		"entry": [{
			"changes": [{
				"value": {
					"messages": [{"from": %q, "text": {"body": %q}}],
					"contacts": [{"wa_id": %q, "profile": {"name": %q}}]
				}
			}]
		}]
	}`, from, text, from, name)
}

func postInbound(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestVerifyHandshake(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "12345", rec.Body.String())
}

func TestVerifyHandshake_WrongToken(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=12345", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerify_NoParamsReportsStatus(t *testing.T) {
	e, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "webhook-ready")
}

func TestInbound_LogHabit(t *testing.T) {
	e, sender := newTestServer(t)

	rec := postInbound(e, inboundBody("15551234567", "Sam", "30 squats"))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "15551234567", sender.sent[0].to)
	assert.Equal(t, "Logged 30 squats. Today total: 30.", sender.sent[0].body)

	// Second log the same day accumulates.
	postInbound(e, inboundBody("15551234567", "Sam", "12 squats"))
	require.Len(t, sender.sent, 2)
	assert.Equal(t, "Logged 12 squats. Today total: 42.", sender.sent[1].body)
}

func TestInbound_GetStats(t *testing.T) {
	e, sender := newTestServer(t)

	postInbound(e, inboundBody("15551234567", "Sam", "30"))
	rec := postInbound(e, inboundBody("15551234567", "Sam", "how many pushups today?"))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "You have logged 30 pushups today.", sender.sent[1].body)
}

func TestInbound_UnknownTextGetsHint(t *testing.T) {
	e, sender := newTestServer(t)

	postInbound(e, inboundBody("15551234567", "Sam", "hello there"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, `Please send a number to log your habit (e.g., "30").`, sender.sent[0].body)
}

func TestInbound_NonTextIgnored(t *testing.T) {
	e, sender := newTestServer(t)

	rec := postInbound(e, `{"entry":[{"changes":[{"value":{"contacts":[{"wa_id":"1"}]}}]}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sender.sent)

	rec = postInbound(e, `{"entry":[]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, sender.sent)
}
