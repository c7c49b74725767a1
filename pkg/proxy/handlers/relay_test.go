package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	testhelpers "mercator-hq/kotoba/internal/providers"
	"mercator-hq/kotoba/pkg/providers/openai"
	"mercator-hq/kotoba/pkg/relay"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRelayHandler(t *testing.T, maxBody int64) (*RelayHandler, *testhelpers.MockServer) {
	t.Helper()

	mock := testhelpers.NewMockServer()
	t.Cleanup(mock.Close)

	client, err := openai.NewClient(testhelpers.TestConfig(mock.Endpoint()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	svc := relay.New(relay.Config{Model: "gpt-5-mini", Temperature: 0.3}, client, relay.Options{})
	return NewRelayHandler(svc, maxBody, nil), mock
}

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRelayHandler_Success(t *testing.T) {
	h, mock := newRelayHandler(t, 1024)
	mock.SetChatResponse(testhelpers.MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"choices":[{"message":{"content":"  東京 - Tokyo  "}}]}`,
	})

	rec := post(h, `{"message":"明日は新幹線で東京に行きます"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "東京 - Tokyo", rec.Body.String())
	assert.Equal(t, 1, mock.GetRequestCount())
}

func TestRelayHandler_AllOutcomesAre200(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		response testhelpers.MockResponse
		want     string
	}{
		{"empty input", `{"message":""}`, testhelpers.MockSuccess("x"), relay.MsgEmptyInput},
		{"malformed json", `{"message":`, testhelpers.MockSuccess("x"), relay.MsgEmptyInput},
		{"upstream error", `{"message":"東京"}`, testhelpers.MockAuthError(), "API Error: Incorrect API key provided"},
		{"unexpected shape", `{"message":"東京"}`, testhelpers.MockResponse{StatusCode: http.StatusOK, Body: `{}`}, relay.MsgUnexpected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newRelayHandler(t, 1024)
			mock.SetChatResponse(tt.response)

			rec := post(h, tt.body)

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRelayHandler_OversizeBodyIsEmptyInput(t *testing.T) {
	h, mock := newRelayHandler(t, 32)
	mock.SetChatResponse(testhelpers.MockSuccess("should not be called"))

	rec := post(h, `{"message":"`+strings.Repeat("長", 100)+`"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, relay.MsgEmptyInput, rec.Body.String())
	assert.Equal(t, 0, mock.GetRequestCount())
}

func TestRelayHandler_TransportFailure(t *testing.T) {
	mock := testhelpers.NewMockServer()
	endpoint := mock.Endpoint()
	mock.Close()

	client, err := openai.NewClient(testhelpers.TestConfig(endpoint))
	require.NoError(t, err)
	h := NewRelayHandler(relay.New(relay.Config{Model: "gpt-5-mini"}, client, relay.Options{}), 1024, nil)

	rec := post(h, `{"message":"東京"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), relay.PrefixTransportError), rec.Body.String())
}

func TestRelayHandler_RejectsOtherMethods(t *testing.T) {
	h, mock := newRelayHandler(t, 1024)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
	assert.Equal(t, 0, mock.GetRequestCount())
}

type fixedRelayer struct {
	got []byte
}

func (f *fixedRelayer) Handle(_ context.Context, raw []byte) relay.Reply {
	f.got = raw
	return relay.Reply{Text: "ok", Outcome: relay.OutcomeOK}
}

func TestRelayHandler_PassesRawBody(t *testing.T) {
	f := &fixedRelayer{}
	h := NewRelayHandler(f, 1024, nil)

	post(h, `{"message":"東京","extra":true}`)

	assert.Equal(t, `{"message":"東京","extra":true}`, string(f.got))
}
