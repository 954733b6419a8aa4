package chat_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zipnivasa/realtime/internal/chat"
	"github.com/zipnivasa/realtime/internal/domain"
	"github.com/zipnivasa/realtime/internal/middleware"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestHandler(t *testing.T) (*echo.Echo, *chat.Handler, *recordingRelay) {
	t.Helper()
	svc, _, relay := newTestService(t)
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e, chat.NewHandler(svc), relay
}

func doJSON(e *echo.Echo, method, target, body, userID string) (*httptest.ResponseRecorder, echo.Context) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != "" {
		c.Set(middleware.IdentityContextKey, domain.Identity{UserID: userID, Role: domain.RoleTenant})
	}
	return rec, c
}

func TestSendHandlerReturnsCreatedEnvelope(t *testing.T) {
	e, h, relay := newTestHandler(t)

	rec, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"bob","message":"hi"}`, "alice")
	require.NoError(t, h.Send(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var env struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    domain.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, "alice", env.Data.Sender)
	assert.Equal(t, "bob", env.Data.Receiver)
	assert.Equal(t, "hi", env.Data.Body)
	assert.NotEmpty(t, env.Data.ID)
	assert.Len(t, relay.messages, 2)
}

func TestSendHandlerRejectsBlankMessage(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"bob","message":"   "}`, "alice")
	err := h.Send(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSendHandlerRejectsMissingReceiver(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"message":"hi"}`, "alice")
	err := h.Send(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestSendHandlerRequiresIdentity(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"bob","message":"hi"}`, "")
	err := h.Send(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestHistoryHandlerReturnsConversation(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"bob","message":"one"}`, "alice")
	require.NoError(t, h.Send(c))
	_, c = doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"alice","message":"two"}`, "bob")
	require.NoError(t, h.Send(c))

	rec, c := doJSON(e, http.MethodGet, "/api/chat/history/bob", "", "alice")
	c.SetParamNames("userID")
	c.SetParamValues("bob")
	require.NoError(t, h.History(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool             `json:"success"`
		Data    []domain.Message `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 2)
	assert.Equal(t, "one", env.Data[0].Body)
	assert.Equal(t, "two", env.Data[1].Body)
}

func TestConversationsHandlerReturnsSummaries(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"alice","message":"hello"}`, "bob")
	require.NoError(t, h.Send(c))

	rec, c := doJSON(e, http.MethodGet, "/api/chat/conversations", "", "alice")
	require.NoError(t, h.Conversations(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Success bool                         `json:"success"`
		Data    []domain.ConversationSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, "bob", env.Data[0].CounterpartID)
	assert.Equal(t, 1, env.Data[0].UnreadCount)
	require.NotNil(t, env.Data[0].Counterpart)
	assert.Equal(t, "Bob", env.Data[0].Counterpart.Name)
}

func TestMarkReadHandlerRejectsMissingPartnerID(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/mark-read", `{}`, "alice")
	err := h.MarkRead(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestMarkReadHandlerClearsUnread(t *testing.T) {
	e, h, _ := newTestHandler(t)

	_, c := doJSON(e, http.MethodPost, "/api/chat/send", `{"receiver":"alice","message":"hello"}`, "bob")
	require.NoError(t, h.Send(c))

	// The field name "partnerId" is what the deployed frontend posts.
	rec, c := doJSON(e, http.MethodPost, "/api/chat/mark-read", `{"partnerId":"bob"}`, "alice")
	require.NoError(t, h.MarkRead(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, c = doJSON(e, http.MethodGet, "/api/chat/conversations", "", "alice")
	require.NoError(t, h.Conversations(c))

	var env struct {
		Data []domain.ConversationSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Len(t, env.Data, 1)
	assert.Equal(t, 0, env.Data[0].UnreadCount)
}
