package bookingapi

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/pitch-booking/internal/domain/lineup"
	"github.com/riskibarqy/pitch-booking/internal/platform/logging"
	"github.com/riskibarqy/pitch-booking/internal/platform/resilience"
	"github.com/riskibarqy/pitch-booking/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const (
	defaultMaxResponseSize = 4 << 20
	lineupsPath            = "/v1/lineups"
	playersPath            = "/v1/players/"
)

var errBookingTransient = crerr.New("booking api transient failure")

type ClientConfig struct {
	BaseURL        string
	Token          string
	Timeout        time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	HTTPClient     *fasthttp.Client
}

// Client talks to the booking backend that owns lineups and player team
// assignments. It implements lineup.Repository.
type Client struct {
	http    *fasthttp.Client
	baseURL string
	token   string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
	flight  resilience.SingleFlight
}

func NewClient(cfg ClientConfig) (*Client, error) {
	baseURL, err := validateHTTPBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid BOOKING_API_BASE_URL")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                     "pitch-booking",
			MaxResponseBodySize:      defaultMaxResponseSize,
			NoDefaultUserAgentHeader: true,
		}
	}

	breakerCfg := cfg.CircuitBreaker
	if breakerCfg.OnStateChange == nil {
		breakerCfg.OnStateChange = func(from, to resilience.CircuitState) {
			logger.Warn("booking api circuit state changed", "from", from, "to", to)
		}
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		timeout: cfg.Timeout,
		logger:  logger,
		breaker: resilience.NewCircuitBreakerFromConfig(breakerCfg),
	}, nil
}

func (c *Client) FetchLineups(ctx context.Context) ([]lineup.Lineup, error) {
	out, err, _ := c.flight.Do(ctx, lineupsPath, func() (any, error) {
		raw, err := c.call(ctx, fasthttp.MethodGet, lineupsPath, nil)
		if err != nil {
			return nil, err
		}

		var envelope lineupsEnvelope
		if err := sonic.Unmarshal(raw, &envelope); err != nil {
			return nil, crerr.Wrap(err, "decode lineups payload")
		}
		return envelope.toDomain()
	})
	if err != nil {
		return nil, fmt.Errorf("fetch lineups from booking api: %w", err)
	}

	items, _ := out.([]lineup.Lineup)
	return items, nil
}

func (c *Client) UpdatePlayerTeam(ctx context.Context, playerID string, team lineup.Side) error {
	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return crerr.New("player id is required")
	}

	body, err := sonic.Marshal(teamUpdateRequest{Team: string(team)})
	if err != nil {
		return crerr.Wrap(err, "marshal team update payload")
	}

	if _, err := c.call(ctx, fasthttp.MethodPatch, playerTeamPath(playerID), body); err != nil {
		return fmt.Errorf("update player team player=%s team=%s: %w", playerID, team, err)
	}

	c.logger.DebugContext(ctx, "booking api player team updated", "player_id", playerID, "team", team)
	return nil
}

func (c *Client) call(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var raw []byte
	err := c.breaker.Do(func() error {
		var reqErr error
		raw, reqErr = c.execute(ctx, method, path, body)
		return reqErr
	}, isBookingCircuitFailure)
	if stderrors.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "booking api circuit breaker rejected request", "path", path, "state", c.breaker.State())
		return nil, fmt.Errorf("%w: booking backend is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	return raw, err
}

func (c *Client) execute(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	var err error
	switch deadline, ok := ctx.Deadline(); {
	case ok:
		err = c.http.DoDeadline(req, resp, deadline)
	case c.timeout > 0:
		err = c.http.DoTimeout(req, resp, c.timeout)
	default:
		err = c.http.Do(req, resp)
	}
	if err != nil {
		return nil, crerr.Wrapf(errBookingTransient, "%s %s: %v", method, path, err)
	}

	status := resp.StatusCode()
	raw := append([]byte(nil), resp.Body()...)
	if status >= 200 && status < 300 {
		return raw, nil
	}

	message := errorMessage(raw)
	switch {
	case status == fasthttp.StatusNotFound && strings.HasPrefix(path, playersPath):
		return nil, fmt.Errorf("%w: %s", lineup.ErrPlayerNotFound, message)
	case isRetryableStatus(status):
		c.logger.WarnContext(ctx, "booking api request failed", "method", method, "path", path, "status", status, "error", message)
		return nil, crerr.Wrapf(errBookingTransient, "%s %s status=%d: %s", method, path, status, message)
	default:
		return nil, crerr.Newf("%s %s status=%d: %s", method, path, status, message)
	}
}

func isBookingCircuitFailure(err error) bool {
	return crerr.Is(err, errBookingTransient)
}

func isRetryableStatus(status int) bool {
	return status == fasthttp.StatusTooManyRequests || status >= 500
}

func playerTeamPath(playerID string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	_, _ = buf.WriteString(playersPath)
	_, _ = buf.WriteString(url.PathEscape(playerID))
	_, _ = buf.WriteString("/team")
	return buf.String()
}

func errorMessage(raw []byte) string {
	var envelope errorEnvelope
	if err := sonic.Unmarshal(raw, &envelope); err == nil && envelope.Error != nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return abbreviateBody(raw)
}

func abbreviateBody(raw []byte) string {
	const limit = 256
	text := strings.TrimSpace(string(raw))
	if len(text) <= limit {
		return text
	}
	return text[:limit] + "..."
}

func validateHTTPBaseURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}

	return strings.TrimRight(candidate, "/"), nil
}
