package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/sentimo/internal/application/analysis"
	appchat "github.com/bryanwahyu/sentimo/internal/application/chat"
	"github.com/bryanwahyu/sentimo/internal/application/workspace"
	"github.com/bryanwahyu/sentimo/internal/domain/chat"
	"github.com/bryanwahyu/sentimo/internal/domain/review"
	"github.com/bryanwahyu/sentimo/internal/middleware"
)

type scriptedModel struct {
	body     string
	err      error
	chatErr  error
	jsonHits int
}

func (m *scriptedModel) GenerateJSON(ctx context.Context, req review.Request) (string, error) {
	m.jsonHits++
	return m.body, m.err
}

func (m *scriptedModel) Complete(ctx context.Context, system string, turns []chat.Turn) (string, error) {
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return "You asked: " + turns[len(turns)-1].Text, nil
}

const validResult = `{"executiveSummary":"Mostly positive.","actionItems":[{"title":"a","description":"b"}],
"sentimentTrend":[{"id":1,"score":2,"snippet":"wow"}],"keywords":[{"word":"fast","count":1,"category":"praise"}]}`

func newServer(t *testing.T, m *scriptedModel) http.Handler {
	t.Helper()
	log := zaptest.NewLogger(t)
	ws := workspace.New(
		analysis.NewService(m, log, 0),
		appchat.NewService(m, log, 0),
		nil,
		log,
	)
	return NewRouter(ws, log, Options{
		AllowedOrigins: []string{"http://localhost:3000"},
		HealthCheckers: map[string]middleware.HealthChecker{
			"model": middleware.CheckFunc(func(context.Context) error { return nil }),
		},
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestAnalyzeAndCurrent(t *testing.T) {
	h := newServer(t, &scriptedModel{body: validResult})

	rec := do(t, h, http.MethodGet, "/v1/analyses/current", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/v1/analyses", `{"text":"Great app, fast delivery."}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	snap := decodeBody[workspace.Snapshot](t, rec)
	assert.Equal(t, "Mostly positive.", snap.Result.ExecutiveSummary)
	assert.Equal(t, 1.0, snap.Result.SentimentTrend[0].Score)
	require.Len(t, snap.Warnings, 1)

	rec = do(t, h, http.MethodGet, "/v1/analyses/current", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, snap.ID, decodeBody[workspace.Snapshot](t, rec).ID)
}

func TestAnalyzeErrors(t *testing.T) {
	tests := []struct {
		name   string
		model  *scriptedModel
		body   string
		status int
		code   string
	}{
		{"bad json", &scriptedModel{}, `{"text":`, http.StatusBadRequest, "invalid_request"},
		{"unknown field", &scriptedModel{}, `{"txt":"x"}`, http.StatusBadRequest, "invalid_request"},
		{"missing text", &scriptedModel{}, `{}`, http.StatusBadRequest, "empty_input"},
		{"empty text", &scriptedModel{}, `{"text":""}`, http.StatusBadRequest, "empty_input"},
		{"blank text", &scriptedModel{}, `{"text":"   "}`, http.StatusBadRequest, "empty_input"},
		{"empty response", &scriptedModel{body: ""}, `{"text":"x"}`, http.StatusBadGateway, "model_response_empty"},
		{"malformed", &scriptedModel{body: "nope"}, `{"text":"x"}`, http.StatusBadGateway, "model_response_malformed"},
		{"shape", &scriptedModel{body: `{"executiveSummary":"ok"}`}, `{"text":"x"}`, http.StatusBadGateway, "model_response_invalid_shape"},
		{"quota", &scriptedModel{err: &review.TransportError{StatusCode: 429, Err: errors.New("slow down")}}, `{"text":"x"}`, http.StatusTooManyRequests, "quota_exceeded"},
		{"timeout", &scriptedModel{err: context.DeadlineExceeded}, `{"text":"x"}`, http.StatusGatewayTimeout, "model_timeout"},
		{"transport", &scriptedModel{err: errors.New("dial tcp")}, `{"text":"x"}`, http.StatusBadGateway, "model_unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newServer(t, tt.model), http.MethodPost, "/v1/analyses", tt.body)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeBody[errorBody](t, rec).Error)
		})
	}
}

func TestAnalyzeShapeDetails(t *testing.T) {
	rec := do(t, newServer(t, &scriptedModel{body: `{"executiveSummary":"ok"}`}), http.MethodPost, "/v1/analyses", `{"text":"x"}`)
	body := decodeBody[errorBody](t, rec)
	fields := []string{}
	for _, v := range body.Details {
		fields = append(fields, v.Field)
	}
	assert.ElementsMatch(t, []string{"actionItems", "sentimentTrend", "keywords"}, fields)
}

func TestBlankInputNeverReachesModel(t *testing.T) {
	m := &scriptedModel{body: validResult}
	do(t, newServer(t, m), http.MethodPost, "/v1/analyses", `{"text":"\n\t "}`)
	assert.Zero(t, m.jsonHits)
}

func TestChat(t *testing.T) {
	h := newServer(t, &scriptedModel{body: validResult})

	rec := do(t, h, http.MethodPost, "/v1/chat/messages", `{"text":"first"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "You asked: first", decodeBody[askResponse](t, rec).Reply.Text)

	do(t, h, http.MethodPost, "/v1/chat/messages", `{"text":"second"}`)

	rec = do(t, h, http.MethodGet, "/v1/chat/messages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[struct {
		Messages []chat.Message `json:"messages"`
	}](t, rec)
	texts := []string{}
	for _, m := range got.Messages {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{chat.WelcomeText, "first", "You asked: first", "second", "You asked: second"}, texts)
}

func TestChatFailureReturnsFallback(t *testing.T) {
	h := newServer(t, &scriptedModel{chatErr: errors.New("quota")})

	rec := do(t, h, http.MethodPost, "/v1/chat/messages", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[askResponse](t, rec)
	assert.Equal(t, chat.FallbackText, resp.Reply.Text)
	assert.NotEmpty(t, resp.Error)
}

func TestChatBlank(t *testing.T) {
	for _, body := range []string{`{"text":"\u0000 "}`, `{"text":""}`, `{}`} {
		rec := do(t, newServer(t, &scriptedModel{}), http.MethodPost, "/v1/chat/messages", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Equal(t, "empty_input", decodeBody[errorBody](t, rec).Error, body)
	}
}

func TestSampleAndHealth(t *testing.T) {
	h := newServer(t, &scriptedModel{})

	rec := do(t, h, http.MethodGet, "/v1/samples/reviews", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeBody[map[string]string](t, rec)["text"], "---")

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/health/live", "").Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/metrics", "").Code)
}

func TestCORS(t *testing.T) {
	h := newServer(t, &scriptedModel{})
	req := httptest.NewRequest(http.MethodOptions, "/v1/analyses", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}
