package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errx "github.com/nncoach/client-core/internal/core/error"
	"github.com/nncoach/client-core/internal/model"
	"github.com/nncoach/client-core/internal/session"
	"github.com/nncoach/client-core/internal/state"
	"github.com/nncoach/client-core/internal/storage"
)

type capture struct {
	mu   sync.Mutex
	msgs []string
}

func (c *capture) Notify(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, message)
}

func (c *capture) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.msgs))
	copy(out, c.msgs)
	return out
}

type fixture struct {
	client   *Client
	sessions *session.Manager
	store    *state.Store
	notes    *capture
}

func newFixture(t *testing.T, baseURL string, suppressed ...string) *fixture {
	t.Helper()
	kv := storage.NewMemory()
	sessions := session.NewManager(kv)
	store := state.New(kv, sessions)
	notes := &capture{}

	cfg := Config{
		BaseURL:                baseURL,
		TimeoutSeconds:         5,
		GenerateTimeoutSeconds: 10,
		SuppressedMessages:     suppressed,
	}
	client := New(cfg, sessions, store, WithNotifier(notes))
	return &fixture{client: client, sessions: sessions, store: store, notes: notes}
}

func envelope(t *testing.T, w http.ResponseWriter, success bool, message string, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, json.NewEncoder(w).Encode(model.Envelope{
		Success: success,
		Message: message,
		Data:    raw,
	}))
}

func TestSendReturnsEnvelopeData(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		envelope(t, w, true, "", map[string]string{"hello": "world"})
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	data, err := f.client.Get(context.Background(), "/ping")
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "world", out["hello"])
	assert.False(t, f.store.Loading())
}

func TestSendAttachesAuthAndContentType(t *testing.T) {
	var gotAuth, gotType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		envelope(t, w, true, "", nil)
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	f.sessions.Save(context.Background(), "tok-123", &model.Profile{ID: 1})

	_, err := f.client.Post(context.Background(), "/auth/me", map[string]string{"k": "v"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotType)
}

func TestSendWithoutTokenOmitsAuthHeader(t *testing.T) {
	var hasAuth bool
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		envelope(t, w, true, "", nil)
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	_, err := f.client.Get(context.Background(), "/public")
	require.NoError(t, err)
	assert.False(t, hasAuth)
}

func TestEnvelopeFailureIsApplicationError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// transport-level success, application-level failure
		envelope(t, w, false, "x", nil)
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	_, err := f.client.Get(context.Background(), "/thing")
	require.Error(t, err)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindApplication, apiErr.Kind)
	assert.Equal(t, "x", apiErr.Message)
	assert.NotEmpty(t, apiErr.Payload)
	assert.Equal(t, []string{"x"}, f.notes.all())
}

func TestUnauthorizedTearsDownSession(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	f.sessions.Save(context.Background(), "stale", &model.Profile{ID: 7})

	var events []session.EventKind
	f.sessions.Subscribe(func(ev session.Event) { events = append(events, ev.Kind) })

	_, err := f.client.Get(context.Background(), "/secure")
	require.Error(t, err)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindAuthExpired, apiErr.Kind)

	assert.Empty(t, f.sessions.Token())
	assert.Nil(t, f.sessions.CurrentUser())
	assert.Contains(t, events, session.EventInvalidated)
	assert.Contains(t, f.notes.all(), errx.SessionExpiredMessage)
}

func TestServerErrorSurfacesGenericMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"stack trace here"}`, http.StatusInternalServerError)
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	_, err := f.client.Get(context.Background(), "/boom")
	require.Error(t, err)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindServer, apiErr.Kind)
	assert.Equal(t, []string{errx.ServerErrorMessage}, f.notes.all())
}

func TestClientErrorUsesServerMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such plan"}`))
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	_, err := f.client.Get(context.Background(), "/plans/9")
	require.Error(t, err)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindClient, apiErr.Kind)
	assert.Equal(t, "no such plan", apiErr.Message)
	assert.Equal(t, []string{"no such plan"}, f.notes.all())
}

func TestSuppressedMessagesAreNotSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no recent meal plan"}`))
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL, "no recent meal plan")
	_, err := f.client.Get(context.Background(), "/meal-plans/latest")
	require.Error(t, err, "suppression hides the notification, not the error")

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "no recent meal plan", apiErr.Message)
	assert.Empty(t, f.notes.all())
}

func TestNetworkFailureIsNetworkError(t *testing.T) {
	f := newFixture(t, "http://127.0.0.1:1")
	_, err := f.client.Get(context.Background(), "/anything")
	require.Error(t, err)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindNetwork, apiErr.Kind)
	assert.Equal(t, []string{errx.NetworkErrorMessage}, f.notes.all())
	assert.False(t, f.store.Loading())
}

func TestLoadingTracksConcurrentRequests(t *testing.T) {
	release := map[string]chan struct{}{
		"1": make(chan struct{}),
		"2": make(chan struct{}),
	}
	started := make(chan string, 2)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		started <- id
		<-release[id]
		envelope(t, w, true, "", nil)
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	done := make(chan error, 2)
	send := func(id string) {
		_, err := f.client.Get(context.Background(), "/slow", WithQuery("id", id))
		done <- err
	}
	go send("1")
	go send("2")

	<-started
	<-started
	require.True(t, f.store.Loading())

	close(release["1"])
	require.NoError(t, <-done)
	assert.True(t, f.store.Loading(), "one settled request must not turn loading off while a sibling is outstanding")

	close(release["2"])
	require.NoError(t, <-done)
	assert.False(t, f.store.Loading())
}

func TestCancellationStillSettlesCounter(t *testing.T) {
	blocked := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(blocked)
		<-r.Context().Done()
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := f.client.Get(ctx, "/slow")
		done <- err
	}()

	<-blocked
	cancel()
	err := <-done
	require.Error(t, err)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindNetwork, apiErr.Kind)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, f.store.Loading())
}

func TestPerCallTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	f := newFixture(t, ts.URL)
	start := time.Now()
	_, err := f.client.Get(context.Background(), "/slow", WithTimeout(50*time.Millisecond))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)

	var apiErr *errx.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errx.KindNetwork, apiErr.Kind, "timeouts surface as network errors, not server errors")
}
