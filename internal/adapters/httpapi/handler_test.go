package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/bnema/teamrelay/internal/application"
	"github.com/bnema/teamrelay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type routerFunc func(ctx context.Context, msg application.InboundMessage) error

func (f routerFunc) Handle(ctx context.Context, msg application.InboundMessage) error {
	return f(ctx, msg)
}

type relayFunc func(ctx context.Context, reply application.AgentReply) error

func (f relayFunc) Handle(ctx context.Context, reply application.AgentReply) error {
	return f(ctx, reply)
}

type broadcastFunc func(ctx context.Context, text string) (int, int, error)

func (f broadcastFunc) Broadcast(ctx context.Context, text string) (int, int, error) {
	return f(ctx, text)
}

type recordingRouter struct {
	mu   sync.Mutex
	msgs []application.InboundMessage
}

func (r *recordingRouter) Handle(_ context.Context, msg application.InboundMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *recordingRouter) messages() []application.InboundMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]application.InboundMessage(nil), r.msgs...)
}

func serve(t *testing.T, h *Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, req)
	h.Wait()
	return w
}

func TestHandler_Banner(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{Version: "1.2.3"})
	w := serve(t, h, http.MethodGet, "/", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "teamrelay 1.2.3\n", w.Body.String())
}

func TestHandler_ResponseRelaysReply(t *testing.T) {
	t.Parallel()

	var got application.AgentReply
	h := NewHandler(HandlerConfig{Relay: relayFunc(func(_ context.Context, reply application.AgentReply) error {
		got = reply
		return nil
	})})

	w := serve(t, h, http.MethodPost, "/response", `{"session":"alice","text":"done"}`, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, application.AgentReply{Worker: "alice", Text: "done"}, got)
}

func TestHandler_ResponseErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		body       string
		relayErr   error
		wantStatus int
		wantCode   string
	}{
		{name: "bad json", body: "not json", wantStatus: http.StatusBadRequest, wantCode: "invalid_json"},
		{name: "missing session", body: `{"text":"x"}`, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "invalid name", body: `{"session":"../x","text":"x"}`, relayErr: domain.ErrInvalidName, wantStatus: http.StatusBadRequest, wantCode: "validation_error"},
		{name: "no chat record", body: `{"session":"ghost","text":"x"}`, relayErr: fmt.Errorf("relay for ghost: %w", domain.ErrNoChatRecord), wantStatus: http.StatusNotFound, wantCode: "no_chat_record"},
		{name: "send failure", body: `{"session":"alice","text":"x"}`, relayErr: errors.New("telegram down"), wantStatus: http.StatusBadGateway, wantCode: "relay_failed"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			h := NewHandler(HandlerConfig{Relay: relayFunc(func(context.Context, application.AgentReply) error {
				return tc.relayErr
			})})
			w := serve(t, h, http.MethodPost, "/response", tc.body, nil)

			require.Equal(t, tc.wantStatus, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp.Code)
		})
	}
}

func TestHandler_Notify(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{Notifier: broadcastFunc(func(_ context.Context, text string) (int, int, error) {
		switch text {
		case "":
			return 0, 0, application.ErrEmptyNotice
		case "fail":
			return 0, 2, errors.New("chat 1: boom")
		default:
			return 1, 2, errors.New("chat 2: boom")
		}
	})})

	w := serve(t, h, http.MethodPost, "/notify", `{"text":"deploy done"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp NotifyResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, NotifyResponse{Sent: 1, Total: 2}, resp)

	w = serve(t, h, http.MethodPost, "/notify", `{"text":""}`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(t, h, http.MethodPost, "/notify", `{"text":"fail"}`, nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestHandler_WebhookRoutesMessage(t *testing.T) {
	t.Parallel()

	router := &recordingRouter{}
	h := NewHandler(HandlerConfig{Router: router})

	update := `{
		"update_id": 10,
		"message": {
			"message_id": 5,
			"chat": {"id": 42},
			"text": "ok thanks",
			"reply_to_message": {"text": "alice: finished", "from": {"is_bot": true}}
		}
	}`
	w := serve(t, h, http.MethodPost, "/telegram", update, nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []application.InboundMessage{{
		ChatID:    42,
		MessageID: 5,
		Text:      "ok thanks",
		ReplyTo:   &application.ReplyMessage{Text: "alice: finished", FromBot: true},
	}}, router.messages())
}

func TestHandler_WebhookSecretMismatchHasNoEffect(t *testing.T) {
	t.Parallel()

	router := &recordingRouter{}
	h := NewHandler(HandlerConfig{Router: router, WebhookSecret: "s3cret"})
	update := `{"update_id":1,"message":{"message_id":1,"chat":{"id":1},"text":"hi"}}`

	w := serve(t, h, http.MethodPost, "/", update, map[string]string{SecretHeader: "wrong"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(t, h, http.MethodPost, "/", update, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, router.messages())

	w = serve(t, h, http.MethodPost, "/", update, map[string]string{SecretHeader: "s3cret"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, router.messages(), 1)
}

func TestHandler_WebhookDropsDuplicateUpdates(t *testing.T) {
	t.Parallel()

	router := &recordingRouter{}
	h := NewHandler(HandlerConfig{Router: router})
	update := `{"update_id":77,"message":{"message_id":1,"chat":{"id":1},"text":"hi"}}`

	serve(t, h, http.MethodPost, "/", update, nil)
	w := serve(t, h, http.MethodPost, "/", update, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, router.messages(), 1)
}

func TestHandler_WebhookRouterErrorStillAcknowledges(t *testing.T) {
	t.Parallel()

	h := NewHandler(HandlerConfig{Router: routerFunc(func(context.Context, application.InboundMessage) error {
		return errors.New("tmux gone")
	})})
	w := serve(t, h, http.MethodPost, "/", `{"update_id":3,"message":{"chat":{"id":1},"text":"hi"}}`, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateInboundImages(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		body string
		want *application.InboundImage
	}{
		{
			name: "largest photo",
			body: `{"message":{"chat":{"id":1},"caption":"look","photo":[
				{"file_id":"big","width":1280,"height":960},
				{"file_id":"small","width":90,"height":67}]}}`,
			want: &application.InboundImage{FileID: "big", Ext: ".jpg"},
		},
		{
			name: "image document",
			body: `{"message":{"chat":{"id":1},"document":{"file_id":"doc","mime_type":"image/png","file_name":"x.png"}}}`,
			want: &application.InboundImage{FileID: "doc", Ext: ".png"},
		},
		{
			name: "non image document",
			body: `{"message":{"chat":{"id":1},"document":{"file_id":"doc","mime_type":"application/pdf","file_name":"x.pdf"}}}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var upd update
			require.NoError(t, json.NewDecoder(strings.NewReader(tc.body)).Decode(&upd))
			msg, ok := upd.inbound()
			require.True(t, ok)
			assert.Equal(t, tc.want, msg.Image)
		})
	}
}

func TestUpdateWithoutMessageIsSkipped(t *testing.T) {
	t.Parallel()

	_, ok := update{UpdateID: 1}.inbound()
	assert.False(t, ok)
}

func TestClientPostsToServer(t *testing.T) {
	t.Parallel()

	replies := make(chan application.AgentReply, 2)
	h := NewHandler(HandlerConfig{
		Relay: relayFunc(func(_ context.Context, reply application.AgentReply) error {
			replies <- reply
			if reply.Worker == "ghost" {
				return domain.ErrNoChatRecord
			}
			return nil
		}),
		Notifier: broadcastFunc(func(context.Context, string) (int, int, error) { return 2, 2, nil }),
	})
	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)

	client := &Client{BaseURL: server.URL + "/", HTTPClient: server.Client()}

	require.NoError(t, client.PostResponse(context.Background(), "alice", "all done"))
	assert.Equal(t, application.AgentReply{Worker: "alice", Text: "all done"}, <-replies)

	err := client.PostResponse(context.Background(), "ghost", "x")
	require.Error(t, err)
	assert.ErrorContains(t, err, "(404)")

	resp, err := client.Notify(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, NotifyResponse{Sent: 2, Total: 2}, resp)
}

func TestServerListenServeShutdown(t *testing.T) {
	t.Parallel()

	srv, err := Listen("127.0.0.1:0", NewHandler(HandlerConfig{Version: "dev"}))
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve() }()

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Shutdown(context.Background()))
	require.NoError(t, <-errCh)
}
