package speech

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSKU string

func (s staticSKU) SKUToken() (string, bool) {
	return string(s), s != ""
}

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []string
}

func (o *recordingObserver) ObserveRequest(outcome string, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

// inlineQueue counts dispatches and runs them on the dispatching goroutine.
type inlineQueue struct {
	dispatched atomic.Int32
}

func (q *inlineQueue) Dispatch(fn func()) {
	q.dispatched.Add(1)
	fn()
}

func newTestSynthesizer(t *testing.T, server *httptest.Server, opts ...Option) *SpeechSynthesizer {
	t.Helper()
	u, err := url.Parse(server.URL)
	require.NoError(t, err)

	opts = append([]Option{
		WithHost(u.Host),
		WithHTTPClient(server.Client()),
		WithLogger(zerolog.Nop()),
	}, opts...)
	synth, err := New(bogusToken, opts...)
	require.NoError(t, err)
	return synth
}

func helloOptions() *SpeechOptions {
	options := NewTextOptions("hello")
	options.Locale = "en_US"
	options.Gender = GenderFemale
	return options
}

func TestNew(t *testing.T) {
	synth, err := New(bogusToken)
	require.NoError(t, err)

	assert.Equal(t, bogusToken, synth.AccessToken())
	assert.Equal(t, "https://api.mapbox.com", synth.APIEndpoint().String())
	assert.Contains(t, synth.UserAgent(), LibraryName+"/"+LibraryVersion)
}

func TestNew_Errors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrMissingAccessToken)

	_, err = New(bogusToken, WithHost(""))
	assert.ErrorIs(t, err, ErrInvalidEndpoint)

	_, err = New(bogusToken, WithHost("api.example.com/path"))
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestMustNew_PanicsWithoutToken(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("")
	})
	assert.NotPanics(t, func() {
		MustNew(bogusToken, WithHost("api-voice-staging.tilestream.net"))
	})
}

func TestNewFromConfig(t *testing.T) {
	synth, err := NewFromConfig(Config{
		AccessToken: bogusToken,
		Host:        "api-voice-staging.tilestream.net",
		AppName:     "Navigator",
		AppVersion:  "2.1",
	})
	require.NoError(t, err)

	assert.Equal(t, "api-voice-staging.tilestream.net", synth.APIEndpoint().Host)
	assert.True(t, strings.HasPrefix(synth.UserAgent(), "Navigator/2.1 "+LibraryName+"/"))

	_, err = NewFromConfig(Config{})
	assert.ErrorIs(t, err, ErrMissingAccessToken)
}

func TestSpeechSynthesizer_URLWithSKU(t *testing.T) {
	synth := MustNew(bogusToken, WithSKUTokenProvider(staticSKU("sku-123")))

	u := synth.URL(helloOptions())

	assert.Equal(t,
		"https://api.mapbox.com/voice/v1/speak/hello?textType=text&language=en_US&outputFormat=mp3&gender=female&access_token=pk.foo-bar&sku=sku-123",
		u.String())
}

func TestSpeechSynthesizer_URLWithoutSKU(t *testing.T) {
	synth := MustNew(bogusToken, WithSKUTokenProvider(staticSKU("")))
	assert.False(t, synth.URL(helloOptions()).Query().Has("sku"))
}

func TestSpeechSynthesizer_AudioData(t *testing.T) {
	audio := []byte{0x49, 0x44, 0x33, 0x04, 0x00, 0xFF, 0xFB}
	userAgents := make(chan string, 1)
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgents <- r.Header.Get("User-Agent")
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/voice/v1/speak/hello", r.URL.Path)
		assert.Equal(t, "text", r.URL.Query().Get("textType"))
		assert.Equal(t, "en_US", r.URL.Query().Get("language"))
		assert.Equal(t, "mp3", r.URL.Query().Get("outputFormat"))
		assert.Equal(t, "female", r.URL.Query().Get("gender"))
		assert.Equal(t, bogusToken, r.URL.Query().Get("access_token"))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	queue := &inlineQueue{}
	observer := &recordingObserver{}
	synth := newTestSynthesizer(t, server, WithQueue(queue), WithObserver(observer), WithApplication("Navigator", "2.1"))

	var calls atomic.Int32
	var gotData []byte
	var gotErr error
	task := synth.AudioData(context.Background(), helloOptions(), func(data []byte, err error) {
		calls.Add(1)
		gotData, gotErr = data, err
	})
	require.NotNil(t, task)

	require.NoError(t, task.Wait(context.Background()))
	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, gotErr)
	assert.Equal(t, audio, gotData)
	assert.Equal(t, TaskCompleted, task.State())
	assert.Equal(t, int32(1), queue.dispatched.Load())
	assert.Equal(t, []string{"success"}, observer.outcomes)
	userAgent := <-userAgents
	assert.Equal(t, synth.UserAgent(), userAgent)
	assert.True(t, strings.HasPrefix(userAgent, "Navigator/2.1 "))
}

func TestSpeechSynthesizer_JSONOkIsDelivered(t *testing.T) {
	body := `{"code":"Ok","message":"synthesized"}`
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	synth := newTestSynthesizer(t, server)

	data, err := synth.Synthesize(context.Background(), helloOptions())
	require.NoError(t, err)
	assert.Equal(t, []byte(body), data)
}

func TestSpeechSynthesizer_RateLimited(t *testing.T) {
	reset := time.Now().Add(10 * time.Minute).Unix()
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Rate-Limit-Limit", "100")
		w.Header().Set("X-Rate-Limit-Interval", "60")
		w.Header().Set("X-Rate-Limit-Reset", strconv.FormatInt(reset, 10))
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"message":"Too Many Requests"}`))
	}))
	defer server.Close()

	observer := &recordingObserver{}
	synth := newTestSynthesizer(t, server, WithObserver(observer))

	data, err := synth.Synthesize(context.Background(), helloOptions())

	assert.Nil(t, data)
	speechErr := requireSpeechError(t, err)
	assert.Equal(t, KindRateLimited, speechErr.Kind)
	assert.Contains(t, speechErr.FailureReason(), "100")
	assert.Contains(t, speechErr.RecoverySuggestion(), formatResetTime(time.Unix(reset, 0)))
	assert.Equal(t, []string{"rate_limited"}, observer.outcomes)
}

func TestSpeechSynthesizer_MalformedJSON(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	queue := &inlineQueue{}
	synth := newTestSynthesizer(t, server, WithQueue(queue))

	var gotData []byte
	var gotErr error
	task := synth.AudioData(context.Background(), helloOptions(), func(data []byte, err error) {
		gotData, gotErr = data, err
	})
	require.NoError(t, task.Wait(context.Background()))

	assert.Nil(t, gotData)
	assert.Equal(t, KindUnknown, requireSpeechError(t, gotErr).Kind)
}

func TestSpeechSynthesizer_Cancel(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	queue := NewSerialQueue()
	defer queue.Close()
	synth := newTestSynthesizer(t, server, WithQueue(queue))

	var calls atomic.Int32
	var gotData []byte
	var gotErr error
	task := synth.AudioData(context.Background(), helloOptions(), func(data []byte, err error) {
		calls.Add(1)
		gotData, gotErr = data, err
	})

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}
	task.Cancel()
	task.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))

	assert.Equal(t, int32(1), calls.Load())
	assert.Nil(t, gotData)
	speechErr := requireSpeechError(t, gotErr)
	assert.Equal(t, KindUnknown, speechErr.Kind)
	assert.True(t, speechErr.IsCancelled())
	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.Equal(t, TaskCancelled, task.State())
}

func TestSpeechSynthesizer_QueueClosedWhileInFlight(t *testing.T) {
	audio := []byte{0xFF, 0xFB, 0x90}
	arrived := make(chan struct{})
	release := make(chan struct{})
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		<-release
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write(audio)
	}))
	defer server.Close()

	queue := NewSerialQueue()
	synth := newTestSynthesizer(t, server, WithQueue(queue))

	var calls atomic.Int32
	var gotData []byte
	var gotErr error
	task := synth.AudioData(context.Background(), helloOptions(), func(data []byte, err error) {
		calls.Add(1)
		gotData, gotErr = data, err
	})

	select {
	case <-arrived:
	case <-time.After(5 * time.Second):
		t.Fatal("request never reached the server")
	}
	queue.Close()
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))

	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, gotErr)
	assert.Equal(t, audio, gotData)
	assert.Equal(t, TaskCompleted, task.State())
}

func TestSpeechSynthesizer_CancelImmediately(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	synth := newTestSynthesizer(t, server, WithQueue(&inlineQueue{}))

	var calls atomic.Int32
	var gotErr error
	task := synth.AudioData(context.Background(), helloOptions(), func(data []byte, err error) {
		calls.Add(1)
		assert.Nil(t, data)
		gotErr = err
	})
	task.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, task.Wait(ctx))

	assert.Equal(t, int32(1), calls.Load())
	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.Equal(t, TaskCancelled, task.State())
}

func TestSpeechSynthesizer_URLFixedAtDispatch(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte(r.URL.Query().Get("gender")))
	}))
	defer server.Close()

	synth := newTestSynthesizer(t, server, WithQueue(&inlineQueue{}))
	options := helloOptions()

	var gotData []byte
	task := synth.AudioData(context.Background(), options, func(data []byte, _ error) {
		gotData = data
	})
	options.Gender = GenderMale
	require.NoError(t, task.Wait(context.Background()))

	assert.Equal(t, "female", string(gotData))
	assert.Equal(t, "female", task.URL().Query().Get("gender"))
}

func TestSpeechSynthesizer_ParentContextCancelled(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("audio"))
	}))
	defer server.Close()

	synth := newTestSynthesizer(t, server, WithQueue(&inlineQueue{}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var gotErr error
	task := synth.AudioData(ctx, helloOptions(), func(_ []byte, err error) {
		gotErr = err
	})
	require.NoError(t, task.Wait(context.Background()))

	assert.ErrorIs(t, gotErr, context.Canceled)
	assert.Equal(t, TaskCancelled, task.State())
}

func TestTaskState_String(t *testing.T) {
	assert.Equal(t, "running", TaskRunning.String())
	assert.Equal(t, "completed", TaskCompleted.String())
	assert.Equal(t, "cancelled", TaskCancelled.String())
	assert.Equal(t, "invalid", TaskState(9).String())
}
