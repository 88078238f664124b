package speech

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultHost is the production voice API host.
const DefaultHost = "api.mapbox.com"

// SKUTokenProvider supplies the optional billing token appended to each request.
type SKUTokenProvider interface {
	SKUToken() (token string, ok bool)
}

// Observer is told the outcome of every finished request. outcome is "success" or a Kind name.
type Observer interface {
	ObserveRequest(outcome string, elapsed time.Duration)
}

// SpeechSynthesizer turns SpeechOptions into audio by calling the voice API.
// Its fields never change after New, so one instance may serve concurrent requests.
type SpeechSynthesizer struct {
	accessToken string
	apiEndpoint *url.URL

	client    Doer
	queue     Queue
	sku       SKUTokenProvider
	observer  Observer
	userAgent string
	logger    zerolog.Logger
}

type settings struct {
	host       string
	client     Doer
	queue      Queue
	sku        SKUTokenProvider
	observer   Observer
	appName    string
	appVersion string
	logger     *zerolog.Logger
}

// Option configures a SpeechSynthesizer.
type Option func(*settings)

// WithHost points the synthesizer at another host, e.g. a staging server. The host may carry a
// port; the scheme is always https.
func WithHost(host string) Option {
	return func(s *settings) {
		s.host = host
	}
}

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client Doer) Option {
	return func(s *settings) {
		s.client = client
	}
}

// WithQueue sets where completion handlers run. Defaults to DefaultQueue().
func WithQueue(q Queue) Option {
	return func(s *settings) {
		s.queue = q
	}
}

func WithSKUTokenProvider(p SKUTokenProvider) Option {
	return func(s *settings) {
		s.sku = p
	}
}

func WithObserver(o Observer) Option {
	return func(s *settings) {
		s.observer = o
	}
}

// WithApplication sets the host application name and version reported in the User-Agent.
func WithApplication(name, version string) Option {
	return func(s *settings) {
		s.appName = name
		s.appVersion = version
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *settings) {
		s.logger = &logger
	}
}

// New returns a synthesizer that authenticates with accessToken.
func New(accessToken string, opts ...Option) (*SpeechSynthesizer, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}
	s := settings{host: DefaultHost}
	for _, opt := range opts {
		opt(&s)
	}

	endpoint, err := url.Parse("https://" + s.host)
	if err != nil || s.host == "" || endpoint.Host != s.host {
		return nil, ErrInvalidEndpoint
	}

	synth := &SpeechSynthesizer{
		accessToken: accessToken,
		apiEndpoint: endpoint,
		client:      s.client,
		queue:       s.queue,
		sku:         s.sku,
		observer:    s.observer,
		userAgent:   UserAgent(s.appName, s.appVersion),
	}
	if synth.client == nil {
		synth.client = http.DefaultClient
	}
	if synth.queue == nil {
		synth.queue = DefaultQueue()
	}
	if s.logger != nil {
		synth.logger = *s.logger
	} else {
		synth.logger = log.Logger.With().Str("component", "speech").Logger()
	}
	return synth, nil
}

// MustNew is New for callers that treat a missing token as a programming error.
func MustNew(accessToken string, opts ...Option) *SpeechSynthesizer {
	s, err := New(accessToken, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Config is the explicit configuration read by NewFromConfig.
type Config struct {
	AccessToken string
	Host        string
	AppName     string
	AppVersion  string
}

// NewFromConfig builds a synthesizer from cfg; opts are applied after the config values.
func NewFromConfig(cfg Config, opts ...Option) (*SpeechSynthesizer, error) {
	var fromConfig []Option
	if cfg.Host != "" {
		fromConfig = append(fromConfig, WithHost(cfg.Host))
	}
	if cfg.AppName != "" {
		fromConfig = append(fromConfig, WithApplication(cfg.AppName, cfg.AppVersion))
	}
	return New(cfg.AccessToken, append(fromConfig, opts...)...)
}

func (s *SpeechSynthesizer) AccessToken() string {
	return s.accessToken
}

// APIEndpoint returns a copy of the endpoint URL.
func (s *SpeechSynthesizer) APIEndpoint() *url.URL {
	u := *s.apiEndpoint
	return &u
}

func (s *SpeechSynthesizer) UserAgent() string {
	return s.userAgent
}

// URL is the request URL for options, including the access token and any SKU token.
func (s *SpeechSynthesizer) URL(options *SpeechOptions) *url.URL {
	var sku string
	if s.sku != nil {
		if token, ok := s.sku.SKUToken(); ok {
			sku = token
		}
	}
	return BuildURL(s.apiEndpoint, options, s.accessToken, sku)
}

// AudioData starts fetching audio for options and returns at once. completion runs exactly once,
// on the synthesizer's queue, with either the raw audio bytes or an *Error.
// Cancelling ctx has the same effect as calling Cancel on the returned Task.
func (s *SpeechSynthesizer) AudioData(ctx context.Context, options *SpeechOptions, completion CompletionHandler) *Task {
	u := s.URL(options)
	ctx, cancel := context.WithCancel(ctx)
	task := newTask(u, cancel)

	go func() {
		defer cancel()
		data, err := s.perform(ctx, u)
		if isCancellation(err) {
			task.Cancel()
		} else if !task.complete() {
			data, err = nil, &Error{Kind: KindUnknown, Underlying: context.Canceled}
		}
		s.queue.Dispatch(func() {
			defer close(task.done)
			completion(data, err)
		})
	}()
	return task
}

// Synthesize fetches audio for options and blocks until it arrives. Errors are *Error values.
func (s *SpeechSynthesizer) Synthesize(ctx context.Context, options *SpeechOptions) ([]byte, error) {
	return s.perform(ctx, s.URL(options))
}

func (s *SpeechSynthesizer) perform(ctx context.Context, u *url.URL) ([]byte, error) {
	requestStart := time.Now()
	response, body, err := fetch(ctx, s.client, u, s.userAgent)

	event := s.logger.Debug().Dur("request_time", time.Since(requestStart)).Str("path", u.EscapedPath())
	if response != nil {
		event = event.Int("status_code", response.StatusCode).Str("content_type", response.ContentType)
	}
	event.Int("response_byte_size", len(body)).Msg("speech request done")

	data, err := Classify(response, body, err)
	outcome := "success"
	if err != nil {
		speechErr := err.(*Error)
		outcome = speechErr.Kind.String()
		s.logger.Debug().Err(err).Str("kind", outcome).Bool("cancelled", speechErr.IsCancelled()).Msg("speech request failed")
	}
	if s.observer != nil {
		s.observer.ObserveRequest(outcome, time.Since(requestStart))
	}
	return data, err
}
