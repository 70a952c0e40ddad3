package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbusdesk/supportchat/classify"
	"github.com/nimbusdesk/supportchat/internal/adapter/llm"
	"github.com/nimbusdesk/supportchat/internal/config"
	"github.com/nimbusdesk/supportchat/internal/service"
	"github.com/nimbusdesk/supportchat/internal/store"
)

type fakeLLMClient struct {
	reply string
	err   error
}

func (f *fakeLLMClient) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{
			{Message: &llm.ChatMessage{Role: "assistant", Content: f.reply}},
		},
	}, nil
}

func newTestServer(t *testing.T) (*echo.Echo, store.Store, *fakeLLMClient) {
	t.Helper()
	db, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	classifier, err := classify.New(context.Background())
	require.NoError(t, err)

	fake := &fakeLLMClient{reply: "Happy to help!"}
	cfg := &config.Config{LLMModel: "test-model", LLMTimeout: 5 * time.Second}
	svc := service.New(db, fake, classifier, cfg)

	e := echo.New()
	NewHandler(svc).RegisterRoutes(e)
	return e, db, fake
}

func postChat(t *testing.T, e *echo.Echo, body map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func getChat(t *testing.T, e *echo.Echo, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	target := "/chat"
	if sessionID != "" {
		target += "?sessionId=" + sessionID
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSendMessageValidation(t *testing.T) {
	e, db, _ := newTestServer(t)

	for _, body := range []map[string]string{
		{},
		{"message": ""},
		{"message": "   "},
	} {
		rec := postChat(t, e, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}

	// Validation failures must not write anything, even with a session id.
	rec := postChat(t, e, map[string]string{"message": "", "sessionId": "s-untouched"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	session, err := db.GetSession(context.Background(), "s-untouched")
	require.NoError(t, err)
	assert.Nil(t, session)
	messages, err := db.Messages(context.Background(), "s-untouched")
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestChatRoundTrip(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := postChat(t, e, map[string]string{"message": "What are your hours?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var first sendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.NotEmpty(t, first.SessionID)
	assert.NotEmpty(t, first.Reply)

	rec = postChat(t, e, map[string]string{"message": "And returns?", "sessionId": first.SessionID})
	require.Equal(t, http.StatusOK, rec.Code)

	var second sendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.Equal(t, first.SessionID, second.SessionID)

	rec = getChat(t, e, first.SessionID)
	require.Equal(t, http.StatusOK, rec.Code)

	var history historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history.Messages, 4)

	wantRoles := []string{"user", "assistant", "user", "assistant"}
	for i, msg := range history.Messages {
		assert.Equal(t, wantRoles[i], msg.Role, "message %d", i)
		assert.NotEmpty(t, msg.ID)
		assert.False(t, msg.CreatedAt.IsZero())
	}
	assert.Equal(t, "What are your hours?", history.Messages[0].Content)
	assert.Equal(t, "And returns?", history.Messages[2].Content)
	for i := 1; i < len(history.Messages); i++ {
		assert.False(t, history.Messages[i].CreatedAt.Before(history.Messages[i-1].CreatedAt),
			"history out of order at %d", i)
	}
}

func TestSendMessageWithForgedSessionID(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := postChat(t, e, map[string]string{"message": "hi", "sessionId": "forged-id"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp sendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestGetHistoryUnknownSession(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := getChat(t, e, "c2a9e3de-0000-4000-8000-000000000000")
	require.Equal(t, http.StatusOK, rec.Code)

	var history historyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	assert.Empty(t, history.Messages)
	// Clients expect an array, not null.
	assert.Contains(t, rec.Body.String(), `"messages":[]`)
}

func TestGetHistoryMissingSessionID(t *testing.T) {
	e, _, _ := newTestServer(t)

	rec := getChat(t, e, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendMessageClassifiedFailure(t *testing.T) {
	e, db, fake := newTestServer(t)
	fake.err = errors.New("rate limit exceeded")

	rec := postChat(t, e, map[string]string{"message": "hello?", "sessionId": "s-fail"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Too many requests right now. Please wait a moment and try again.", resp["error"])
	assert.NotContains(t, rec.Body.String(), "rate limit exceeded")

	// The user message is persisted despite the failure.
	messages, err := db.Messages(context.Background(), "s-fail")
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hello?", messages[0].Content)
}

func TestHealth(t *testing.T) {
	e, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}
