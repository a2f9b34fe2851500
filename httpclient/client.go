package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/kbukum/robusthttp/cache"
	"github.com/kbukum/robusthttp/logger"
	"github.com/kbukum/robusthttp/resilience"
	"github.com/kbukum/robusthttp/util"
	"github.com/kbukum/robusthttp/version"
)

// Option customizes a Client at construction time.
type Option func(*Client)

// WithLogger replaces the logger built from the environment.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithErrorHandler installs a handler that gets first look at every
// failure before classification. Returning a non-nil error replaces
// the original; returning nil keeps it.
func WithErrorHandler(fn func(error) error) Option {
	return func(c *Client) { c.errorHandler = fn }
}

// WithTransport replaces the underlying round tripper. Mainly useful
// for tests and for transports with custom TLS setup.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithMeter replaces the meter used for client metrics. Without it the
// globally registered meter provider is used.
func WithMeter(m metric.Meter) Option {
	return func(c *Client) { c.meter = m }
}

// Client is a resilient HTTP client. All methods are safe for
// concurrent use.
type Client struct {
	config    Config
	transport http.RoundTripper
	httpc     *http.Client

	cb       *resilience.CircuitBreaker
	rl       *resilience.RateLimiter
	contexts *cache.LRU[string, *RetryContext]

	reqInterceptors  interceptorChain[RequestInterceptor]
	respInterceptors interceptorChain[ResponseInterceptor]

	// headersMu guards config.Headers, the one config field that is
	// commonly mutated at runtime (token refresh).
	headersMu sync.RWMutex

	log          *logger.Logger
	errorHandler func(error) error
	meter        metric.Meter
	metrics      *clientMetrics
}

// New creates a Client from cfg. Zero config fields receive defaults;
// nil Retry, RateLimit and CircuitBreaker sections disable the
// corresponding pipeline stage.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Client{config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if c.log == nil {
		c.log = logger.NewFromEnv(cfg.Name)
	}
	c.log = c.log.WithComponent("httpclient")

	if c.transport == nil {
		c.transport = http.DefaultTransport
	}
	// Attempt deadlines come from per-attempt contexts, so the
	// net/http client itself carries no timeout.
	c.httpc = &http.Client{Transport: c.transport}

	if cfg.CircuitBreaker != nil {
		cbCfg := *cfg.CircuitBreaker
		userHook := cbCfg.OnStateChange
		cbCfg.OnStateChange = func(name string, from, to resilience.State) {
			c.log.Warn("circuit breaker state changed", logger.Fields(
				"breaker", name, "from", from.String(), "to", to.String()))
			if userHook != nil {
				userHook(name, from, to)
			}
		}
		c.cb = resilience.NewCircuitBreaker(cbCfg)
	}

	if cfg.RateLimit != nil {
		rlCfg := *cfg.RateLimit
		userHook := rlCfg.OnLimit
		rlCfg.OnLimit = func(name string) {
			c.log.Warn("rate limit exceeded", logger.Fields("limiter", name))
			if userHook != nil {
				userHook(name)
			}
		}
		c.rl = resilience.NewRateLimiter(rlCfg)
	}

	c.contexts = cache.NewLRU[string, *RetryContext](cfg.ContextThreshold, func(key string, rc *RetryContext) {
		c.log.Debug("retry context evicted", logger.Fields(
			logger.FieldRequestID, rc.ID, "key", key, "retries", rc.RetryCount))
	})

	metrics, err := newClientMetrics(c.meter, cfg.Name)
	if err != nil {
		return nil, err
	}
	c.metrics = metrics

	c.log.Debug("client created", logger.Fields(
		"base_url", cfg.BaseURL,
		"timeout", cfg.Timeout.String(),
		"dry_run", cfg.DryRun,
		"retry", cfg.Retry != nil,
		"rate_limit", cfg.RateLimit != nil,
		"circuit_breaker", cfg.CircuitBreaker != nil))
	return c, nil
}

// Do executes req and returns the response or a classified error.
// Retries, rate limiting and circuit breaking happen transparently
// according to the client configuration. ctx cancellation aborts the
// request, including any backoff wait between attempts.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.do(ctx, req.clone())
}

// do is the entry pass through the pipeline for a logical request:
// sweep, admission, context binding, then the first attempt. Retries
// stay bound to the context acquired here.
func (c *Client) do(ctx context.Context, req Request) (*Response, error) {
	if swept := c.contexts.SweepOlderThan(c.config.ContextMaxAge); swept > 0 {
		c.log.Debug("expired retry contexts swept", logger.Fields("count", swept))
	}
	c.metrics.recordRequest(ctx, req.Method)

	if err := c.admit(ctx, &req); err != nil {
		return nil, err
	}

	key := RequestKey(c.config.BaseURL, req)
	rc, ok := c.contexts.Get(key)
	if !ok {
		rc = newRetryContext(key, req, c.attemptTimeout(req), c.categoryFor(&req))
		c.contexts.Set(key, rc)
	}

	// Identical in-flight requests share retry state. Attempts on a
	// context are serialized so every hook and retry decision sees a
	// consistent count and history.
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return c.attempt(ctx, rc, req)
}

// admit runs circuit breaker and rate limiter admission. It is called
// once per attempt, retries included.
func (c *Client) admit(ctx context.Context, req *Request) error {
	if c.cb != nil && !c.cb.Allow() {
		c.metrics.recordCircuitRejected(ctx)
		c.log.Warn("request rejected, circuit open", logger.Fields(
			logger.FieldMethod, req.Method, logger.FieldURL, req.Path))
		return resilience.ErrCircuitOpen
	}
	if c.rl != nil && !c.rl.TryAcquire() {
		c.metrics.recordRateLimited(ctx)
		return NewRateLimitError("request rejected by local rate limiter", 0, nil)
	}
	return nil
}

// attempt runs interceptors and the transport call for one attempt.
func (c *Client) attempt(ctx context.Context, rc *RetryContext, req Request) (*Response, error) {
	c.mergeDefaultHeaders(&req)
	if err := c.applyRequestInterceptors(ctx, &req); err != nil {
		return c.handleFailure(ctx, rc, interceptorError("request", err), 0)
	}
	rc.Request = req

	if c.config.DryRun {
		c.log.Info("dry run, request not sent", logger.Fields(
			logger.FieldMethod, req.Method, logger.FieldURL, req.Path,
			logger.FieldRequestID, rc.ID))
		return c.succeed(ctx, rc, &Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Headers:    map[string]string{},
		})
	}

	start := time.Now()
	resp, err := c.send(ctx, rc, req)
	elapsed := time.Since(start)

	if err != nil {
		return c.handleFailure(ctx, rc, err, elapsed)
	}

	resp.Duration = elapsed
	c.metrics.recordDuration(ctx, elapsed.Seconds(), resp.StatusCode)
	return c.succeed(ctx, rc, resp)
}

// send performs the transport call with this attempt's deadline and
// classifies the outcome.
func (c *Client) send(ctx context.Context, rc *RetryContext, req Request) (*Response, error) {
	target, err := req.URL(c.config.BaseURL)
	if err != nil {
		return nil, NewClientError(0, "invalid request URL: "+err.Error(), nil)
	}

	bodyReader, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, NewClientError(0, "request body encoding failed: "+err.Error(), nil)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, rc.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(attemptCtx, strings.ToUpper(req.Method), target, bodyReader)
	if err != nil {
		return nil, NewClientError(0, "invalid request: "+err.Error(), nil)
	}
	if contentType != "" && req.Headers["Content-Type"] == "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("User-Agent", version.UserAgent())
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	c.log.Info("sending request", logger.Fields(
		logger.FieldMethod, httpReq.Method,
		logger.FieldURL, target,
		logger.FieldRequestID, rc.ID,
		logger.FieldAttempt, rc.RetryCount))
	if c.config.Debug {
		c.log.Debug("request detail", logger.Fields(
			logger.FieldRequestID, rc.ID,
			"headers", util.RedactHeaders(req.Headers),
			"timeout", rc.Timeout.String()))
	}

	httpResp, err := c.httpc.Do(httpReq)
	if err != nil {
		// Distinguish caller cancellation from the attempt
		// deadline before generic classification.
		if ctx.Err() != nil && errors.Is(ctx.Err(), context.Canceled) {
			return nil, NewCancellationError(ctx.Err())
		}
		if attemptCtx.Err() != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
			return nil, NewTimeoutError("request timed out after "+rc.Timeout.String(), err)
		}
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	if statusErr := ClassifyStatusCode(httpResp.StatusCode, httpResp.Header, data); statusErr != nil {
		return nil, statusErr
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    flattenHeader(httpResp.Header),
		Body:       data,
	}, nil
}

// succeed finishes a successful attempt: response interceptors, state
// cleanup and hooks.
func (c *Client) succeed(ctx context.Context, rc *RetryContext, resp *Response) (*Response, error) {
	if err := c.applyResponseInterceptors(ctx, resp); err != nil {
		return c.handleFailure(ctx, rc, interceptorError("response", err), 0)
	}

	if c.cb != nil {
		c.cb.RecordSuccess()
	}
	c.contexts.Delete(rc.Key)

	fields := logger.Fields(
		logger.FieldMethod, rc.Request.Method,
		logger.FieldURL, rc.Request.Path,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldRequestID, rc.ID,
		logger.FieldDuration, resp.Duration.Milliseconds())
	if c.config.Debug {
		c.log.Debug("response detail", logger.Fields(
			logger.FieldRequestID, rc.ID,
			"headers", util.RedactHeaders(resp.Headers),
			"body_bytes", len(resp.Body)))
	}
	if rc.RetryCount > 0 {
		fields["retries"] = rc.RetryCount
		c.log.Info("request succeeded after retries", fields)
		if c.config.Retry != nil && c.config.Retry.OnSuccess != nil {
			c.config.Retry.OnSuccess(rc, resp)
		}
	} else {
		c.log.Info("request completed", fields)
	}
	return resp, nil
}

// handleFailure classifies err, records the attempt and either retries
// or fails terminally.
func (c *Client) handleFailure(ctx context.Context, rc *RetryContext, err error, elapsed time.Duration) (*Response, error) {
	cerr := c.classify(err)

	if c.cb != nil && breakerRelevant(cerr) {
		c.cb.RecordFailure()
	}
	rc.recordAttempt(cerr, elapsed)
	c.contexts.Set(rc.Key, rc)

	c.log.Error("request failed", logger.Fields(
		logger.FieldMethod, rc.Request.Method,
		logger.FieldURL, rc.Request.Path,
		logger.FieldRequestID, rc.ID,
		logger.FieldAttempt, rc.RetryCount,
		logger.FieldError, cerr.Error(),
		"kind", kindOf(cerr).String()))

	if c.shouldRetry(rc, cerr) {
		if derr := c.prepareRetry(ctx, rc, cerr); derr != nil {
			return c.fail(ctx, rc, derr)
		}
		c.metrics.recordRetry(ctx, kindOf(cerr))
		c.metrics.recordRequest(ctx, rc.Request.Method)
		// The retry stays bound to this context. Interceptors may have
		// rewritten the request, but the retry budget does not move
		// with it. An admission denial here ends the sequence.
		if aerr := c.admit(ctx, &rc.Request); aerr != nil {
			return c.fail(ctx, rc, aerr)
		}
		return c.attempt(ctx, rc, rc.Request)
	}
	return c.fail(ctx, rc, cerr)
}

// fail is the terminal failure path: metrics, hook, state cleanup.
func (c *Client) fail(ctx context.Context, rc *RetryContext, err error) (*Response, error) {
	c.metrics.recordFailure(ctx, kindOf(err))
	c.contexts.Delete(rc.Key)
	if c.config.Retry != nil && c.config.Retry.OnFailed != nil {
		c.config.Retry.OnFailed(rc, err)
	}
	return nil, err
}

// classify gives the custom error handler first look, then maps the
// result onto the package taxonomy.
func (c *Client) classify(err error) error {
	if c.errorHandler != nil {
		if transformed := c.errorHandler(err); transformed != nil {
			err = transformed
		}
	}
	return Classify(err)
}

// Close releases tracked retry state and idle connections. The client
// must not be used afterwards.
func (c *Client) Close(ctx context.Context) error {
	c.contexts.Clear()
	if t, ok := c.transport.(*http.Transport); ok {
		t.CloseIdleConnections()
	}
	c.log.Debug("client closed")
	return nil
}

// Config returns a copy of the effective configuration.
func (c *Client) Config() Config {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	cfg := c.config
	if c.config.Headers != nil {
		cfg.Headers = make(map[string]string, len(c.config.Headers))
		for k, v := range c.config.Headers {
			cfg.Headers[k] = v
		}
	}
	return cfg
}

// SetDefaultHeader sets a header applied to every subsequent request.
// Safe to call while requests are in flight, for example to rotate an
// authorization token.
func (c *Client) SetDefaultHeader(key, value string) {
	c.headersMu.Lock()
	defer c.headersMu.Unlock()
	if c.config.Headers == nil {
		c.config.Headers = map[string]string{}
	}
	c.config.Headers[key] = value
}

// UpdateConfig applies fn to the configuration and re-applies
// defaults. Intended for settings read per request, like Timeout,
// Debug and DryRun; it must not be called concurrently with requests
// that are mid retry.
func (c *Client) UpdateConfig(fn func(*Config)) {
	c.headersMu.Lock()
	defer c.headersMu.Unlock()
	fn(&c.config)
	c.config.ApplyDefaults()
}

// CircuitBreaker exposes the breaker for health checks. Nil when the
// stage is disabled.
func (c *Client) CircuitBreaker() *resilience.CircuitBreaker {
	return c.cb
}

// RateLimiter exposes the limiter. Nil when the stage is disabled.
func (c *Client) RateLimiter() *resilience.RateLimiter {
	return c.rl
}

// PendingRetries returns how many logical requests currently carry
// retry state.
func (c *Client) PendingRetries() int {
	return c.contexts.Len()
}

func (c *Client) attemptTimeout(req Request) time.Duration {
	if req.Timeout > 0 {
		return req.Timeout
	}
	return c.config.Timeout
}

func (c *Client) mergeDefaultHeaders(req *Request) {
	c.headersMu.RLock()
	defer c.headersMu.RUnlock()
	if len(c.config.Headers) == 0 {
		return
	}
	if req.Headers == nil {
		req.Headers = make(map[string]string, len(c.config.Headers))
	}
	for k, v := range c.config.Headers {
		if _, ok := req.Headers[k]; !ok {
			req.Headers[k] = v
		}
	}
}

func kindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// interceptorError keeps interceptor failures classified as local
// client errors unless the interceptor already returned one from the
// package taxonomy.
func interceptorError(stage string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	ierr := NewClientError(0, stage+" interceptor: "+err.Error(), nil)
	ierr.Err = err
	return ierr
}

// breakerRelevant reports whether a failure says anything about the
// health of the remote endpoint. Cancellations and failures that never
// left the client, interceptor and encoding errors among them, must
// not trip the breaker.
func breakerRelevant(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindCancelled:
		return false
	case KindNetwork, KindTimeout:
		return true
	default:
		return e.StatusCode > 0
	}
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case io.Reader:
		return b, "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case string:
		return strings.NewReader(b), "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(data), "application/json", nil
	}
}

func flattenHeader(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k := range h {
		out[k] = h.Get(k)
	}
	return out
}
