package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/pictor"
)

// testRequest is a minimal payload for transport tests.
type testRequest struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

func (r *testRequest) Validate() error {
	if r.Prompt == "" {
		return pictor.NewValidationError("prompt", "must not be empty")
	}
	return nil
}

// testResponse mirrors testRequest so round-trips can be checked
// field-for-field.
type testResponse struct {
	Prompt string `json:"prompt"`
	Size   string `json:"size,omitempty"`
}

func testProfile(t *testing.T, endpoint string, opts ...pictor.ProfileOption) pictor.Profile {
	t.Helper()
	base := []pictor.ProfileOption{
		pictor.WithModelName("test-model"),
		pictor.WithGeneratePath("/generate"),
		pictor.WithTimeout(5 * time.Second),
		pictor.WithMaxRetries(2),
		pictor.WithRetryBaseDelay(time.Millisecond),
	}
	p, err := pictor.NewProfile(endpoint, "test-token", append(base, opts...)...)
	require.NoError(t, err)
	return p
}

func TestDispatchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req testRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(testResponse{Prompt: req.Prompt, Size: req.Size})
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	resp, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL), &testRequest{Prompt: "a red fox", Size: "1024x1024"})
	require.NoError(t, err)

	// Round-trip: the echoed body reproduces the request field-for-field.
	assert.Equal(t, "a red fox", resp.Prompt)
	assert.Equal(t, "1024x1024", resp.Size)
}

func TestDispatchHeaders(t *testing.T) {
	var got http.Header
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		path = r.URL.String()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL, pictor.WithAPIVersion("2025-01-01")),
		&testRequest{Prompt: "p"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", got.Get("Authorization"))
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, pictor.UserAgent, got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
	assert.Equal(t, "/generate?api-version=2025-01-01", path)
}

func TestDispatchPreservesExistingQuery(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.String()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL,
			pictor.WithGeneratePath("/generate?preset=fast"),
			pictor.WithAPIVersion("v2")),
		&testRequest{Prompt: "p"})
	require.NoError(t, err)

	assert.Equal(t, "/generate?preset=fast&api-version=v2", path)
}

func TestDispatchRetriesServerErrorsThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"prompt":"ok"}`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	d := testProfile(t, srv.URL, pictor.WithMaxRetries(2), pictor.WithRetryBaseDelay(10*time.Millisecond))
	start := time.Now()
	resp, err := Dispatch[*testRequest, testResponse](context.Background(), tr, d,
		&testRequest{Prompt: "p"})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Prompt)
	assert.Equal(t, int32(3), calls.Load())
	// Backoff is base*2^0 + base*2^1 = 10ms + 20ms.
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestDispatchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"no such model"}`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL, pictor.WithMaxRetries(5)),
		&testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsClient(err))
	assert.Equal(t, http.StatusNotFound, pictor.StatusCodeOf(err))
	assert.Contains(t, string(pictor.BodyOf(err)), "no such model")
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatchZeroRetriesFailsImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL, pictor.WithMaxRetries(0)),
		&testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsServer(err))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDispatchExhaustsRetriesAndSurfacesLastError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("bad gateway"))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL, pictor.WithMaxRetries(2)),
		&testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsServer(err))
	assert.Equal(t, http.StatusBadGateway, pictor.StatusCodeOf(err))
	assert.Equal(t, int32(3), calls.Load())
}

func TestDispatchNetworkErrorIsRetried(t *testing.T) {
	// Point at a closed port: every attempt fails at the dial.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := srv.URL
	srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, endpoint, pictor.WithMaxRetries(1)),
		&testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsNetwork(err))
}

func TestDispatchCancellationBeatsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	_, err := Dispatch[*testRequest, testResponse](ctx, tr,
		testProfile(t, srv.URL, pictor.WithTimeout(5*time.Second)),
		&testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsCancelled(err), "expected cancelled, got %v", err)
	assert.False(t, pictor.IsTimeout(err))
}

func TestDispatchDescriptorTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	d := testProfile(t, srv.URL, pictor.WithTimeout(50*time.Millisecond), pictor.WithMaxRetries(3))
	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr, d,
		&testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsTimeout(err), "expected timeout, got %v", err)

	var perr *pictor.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 50*time.Millisecond, perr.Timeout)
}

func TestDispatchEmptyBodyIsSerializationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL), &testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsSerialization(err))
}

func TestDispatchMalformedBodyIsSerializationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"prompt": unterminated`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL), &testRequest{Prompt: "p"})

	require.Error(t, err)
	assert.True(t, pictor.IsSerialization(err))
}

func TestDispatchNilArguments(t *testing.T) {
	tr := New()
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr, nil, &testRequest{Prompt: "p"})
	assert.True(t, pictor.IsValidation(err))

	_, err = Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, "https://api.example.com"), nil)
	assert.True(t, pictor.IsValidation(err))
}

func TestDispatchCredentialsNeverShared(t *testing.T) {
	tokens := make(chan string, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokens <- r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	base := []pictor.ProfileOption{
		pictor.WithModelName("m"),
		pictor.WithGeneratePath("/generate"),
	}
	d1, err := pictor.NewProfile(srv.URL, "token-one", base...)
	require.NoError(t, err)
	d2, err := pictor.NewProfile(srv.URL, "token-two", base...)
	require.NoError(t, err)

	_, err = Dispatch[*testRequest, testResponse](context.Background(), tr, d1, &testRequest{Prompt: "p"})
	require.NoError(t, err)
	_, err = Dispatch[*testRequest, testResponse](context.Background(), tr, d2, &testRequest{Prompt: "p"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer token-one", <-tokens)
	assert.Equal(t, "Bearer token-two", <-tokens)
}

func TestDispatchHonorsRetryAfter(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			// Retry-After larger than the computed backoff must win.
			w.Header().Set("Retry-After", "1")
			http.Error(w, "overloaded", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tr := New()
	defer tr.Close()

	d := testProfile(t, srv.URL, pictor.WithMaxRetries(1), pictor.WithRetryBaseDelay(time.Millisecond))
	start := time.Now()
	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr, d,
		&testRequest{Prompt: "p"})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestDispatchEmitsEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	events := make(chan Event, 16)
	tr := New(WithEvents(events))
	defer tr.Close()

	_, err := Dispatch[*testRequest, testResponse](context.Background(), tr,
		testProfile(t, srv.URL), &testRequest{Prompt: "p"})
	require.NoError(t, err)
	close(events)

	var types []EventType
	var requestID string
	for ev := range events {
		types = append(types, ev.Type)
		if requestID == "" {
			requestID = ev.RequestID
		} else {
			assert.Equal(t, requestID, ev.RequestID)
		}
	}
	assert.Equal(t, []EventType{EventAttemptStart, EventSuccess}, types)
	assert.NotEmpty(t, requestID)
}

func TestRequestURL(t *testing.T) {
	cases := []struct {
		name     string
		endpoint string
		path     string
		version  string
		want     string
	}{
		{"plain", "https://api.example.com", "/generate", "v1",
			"https://api.example.com/generate?api-version=v1"},
		{"trailing slash", "https://api.example.com/", "/generate", "v1",
			"https://api.example.com/generate?api-version=v1"},
		{"missing leading slash", "https://api.example.com", "generate", "v1",
			"https://api.example.com/generate?api-version=v1"},
		{"existing query", "https://api.example.com", "/generate?a=b", "v1",
			"https://api.example.com/generate?a=b&api-version=v1"},
		{"no version", "https://api.example.com", "/generate", "",
			"https://api.example.com/generate"},
		{"escaped version", "https://api.example.com", "/generate", "2025 01",
			"https://api.example.com/generate?api-version=2025+01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			opts := []pictor.ProfileOption{
				pictor.WithModelName("m"),
				pictor.WithGeneratePath(tc.path),
				pictor.WithAPIVersion(tc.version),
			}
			p, err := pictor.NewProfile(tc.endpoint, "tok", opts...)
			require.NoError(t, err)

			got, err := requestURL(p)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 3*time.Second, parseRetryAfter("3"))
	assert.Equal(t, time.Duration(0), parseRetryAfter(""))
	assert.Equal(t, time.Duration(0), parseRetryAfter("soon"))

	at := time.Now().Add(2 * time.Second).UTC().Format(http.TimeFormat)
	got := parseRetryAfter(at)
	assert.Greater(t, got, time.Duration(0))
	assert.LessOrEqual(t, got, 2*time.Second)
}
