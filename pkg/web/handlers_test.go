package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/cupogo/andvari/utils/zlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liut/chatbot/pkg/controller"
	"github.com/liut/chatbot/pkg/models/chat"
	"github.com/liut/chatbot/pkg/services/chatapi"
	"github.com/liut/chatbot/pkg/web/reply"
)

func TestMain(m *testing.M) {
	zlog.Set(zap.NewNop().Sugar())
	os.Exit(m.Run())
}

type stubReplier struct {
	history chat.Messages
	text    string
	err     error
}

func (s *stubReplier) Reply(_ context.Context, message string, history chat.Messages) (string, error) {
	s.history = history
	return s.text, s.err
}

func newTestServer(t *testing.T, cfg Config) *server {
	t.Helper()
	s, err := newServer(cfg)
	require.NoError(t, err)
	return s
}

func postJSON(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPing(t *testing.T) {
	s := newTestServer(t, Config{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Pong\n", rec.Body.String())
}

func TestPostChatRequiresMessage(t *testing.T) {
	s := newTestServer(t, Config{})
	for _, body := range []string{`{"message":"   "}`, `{}`} {
		rec := postJSON(t, s, body)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var res chat.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "Message is required.", res.Error)
		assert.Equal(t, http.StatusBadRequest, res.Status)
	}
}

func TestPostChatAppendsTurn(t *testing.T) {
	rp := &stubReplier{text: "hello"}
	s := newTestServer(t, Config{Replier: rp})

	rec := postJSON(t, s, `{"message":" hi ","history":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "hello", res.Reply)
	assert.Equal(t, chat.Messages{
		{Role: chat.RoleUser, Content: "hi"},
		{Role: chat.RoleAssistant, Content: "hello"},
	}, res.History)
	assert.Empty(t, rp.history)
}

func TestPostChatSanitizesHistory(t *testing.T) {
	var history chat.Messages
	for i := 0; i < 12; i++ {
		history = append(history, chat.Message{Role: chat.RoleUser, Content: string(rune('a' + i))})
	}
	history[5] = chat.Message{Role: "system", Content: "drop me"}
	history[6] = chat.Message{Role: chat.RoleAssistant, Content: "   "}
	history[7] = chat.Message{Role: chat.RoleAssistant, Content: "  padded  "}
	body, err := json.Marshal(chat.Request{Message: "next", History: history})
	require.NoError(t, err)

	rp := &stubReplier{text: "ok"}
	s := newTestServer(t, Config{Replier: rp})
	rec := postJSON(t, s, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	// last 10 are c..l, minus the two invalid entries
	require.Len(t, rp.history, 8)
	assert.Equal(t, "c", rp.history[0].Content)
	assert.Equal(t, chat.Message{Role: chat.RoleAssistant, Content: "padded"}, rp.history[3])
	assert.Equal(t, "l", rp.history[7].Content)

	var res chat.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Len(t, res.History, 10)
}

func TestPostChatAnyContentType(t *testing.T) {
	s := newTestServer(t, Config{Replier: &stubReplier{text: "ok"}})
	for _, ct := range []string{"", "text/plain", "application/x-www-form-urlencoded"} {
		req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hi"}`))
		if len(ct) > 0 {
			req.Header.Set("Content-Type", ct)
		}
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "content type %q", ct)

		var res chat.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "ok", res.Reply)
	}
}

func TestPostChatReplierFailure(t *testing.T) {
	s := newTestServer(t, Config{Replier: &stubReplier{err: errors.New("model offline")}})
	rec := postJSON(t, s, `{"message":"hi"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "model offline")
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: "1-M"})
	assert.Equal(t, http.StatusOK, postJSON(t, s, `{"message":"one"}`).Code)

	rec := postJSON(t, s, `{"message":"two"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	var res chat.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "rate limited", res.Error)
}

func TestInvalidRateLimit(t *testing.T) {
	_, err := New(Config{RateLimit: "many"})
	assert.Error(t, err)
}

func TestDocHandler(t *testing.T) {
	fsys := fstest.MapFS{"index.html": {Data: []byte("<html>chat</html>")}}
	s := newTestServer(t, Config{DocHandler: http.FileServer(http.FS(fsys))})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "chat")
}

func TestControllerAgainstServer(t *testing.T) {
	s := newTestServer(t, Config{RateLimit: "1-M"})
	ts := httptest.NewServer(s)
	defer ts.Close()

	v := new(lastView)
	c := controller.New(v, chatapi.New(ts.URL+"/api/chat"))

	greeting, err := reply.Rules{}.Reply(context.Background(), "hi", nil)
	require.NoError(t, err)
	require.True(t, c.Submit(context.Background(), "hi"))
	assert.Equal(t, greeting, v.last)
	before := c.History()
	require.Len(t, before, 2)

	require.True(t, c.Submit(context.Background(), "hello"))
	assert.Equal(t, "rate limited", v.last)
	assert.Equal(t, before, c.History())
}

type lastView struct {
	last string
}

func (v *lastView) Render(role chat.Role, content string) {
	if role == chat.RoleAssistant {
		v.last = content
	}
}

func (v *lastView) ClearInput() {}

func (v *lastView) SetSending(bool) {}
