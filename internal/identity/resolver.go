// Package identity resolves display names to canonical external account identifiers.
package identity

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/middleware/circuitbreaker"
	"github.com/jaxron/axonet/middleware/singleflight"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/sbu-community/sentinel/internal/setup/config"
	"github.com/sbu-community/sentinel/internal/setup/telemetry/logger"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the lookup service answered but has no such account.
	ErrNotFound = errors.New("account not found")
	// ErrUnavailable means the lookup service could not be reached or answered unexpectedly.
	ErrUnavailable = errors.New("lookup service unavailable")
)

// profile is the lookup service's response body.
type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Resolver looks up canonical identifiers with a single GET per call.
type Resolver struct {
	client  *client.Client
	baseURL string
	logger  *zap.Logger
}

// NewResolver builds a Resolver with its own HTTP client from config values.
func NewResolver(cfg *config.Lookup, zapLogger *zap.Logger) *Resolver {
	breakerTimeout := time.Duration(cfg.BreakerTimeout) * time.Millisecond

	httpClient := client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
		client.WithLogger(logger.New(zapLogger.Named("lookup_http"))),
		client.WithTimeout(time.Duration(cfg.RequestTimeout)*time.Millisecond),
		client.WithMiddleware(
			circuitbreaker.New(cfg.BreakerMaxRequests, breakerTimeout, breakerTimeout),
			singleflight.New(),
		),
	)

	return New(httpClient, cfg.BaseURL, zapLogger)
}

// New creates a Resolver on an existing HTTP client.
func New(httpClient *client.Client, baseURL string, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:  httpClient,
		baseURL: baseURL,
		logger:  logger.Named("identity"),
	}
}

// Resolve returns the canonical identifier for name, or false when none can be obtained.
// Service failures are logged but reported the same way as an unknown name.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, bool) {
	id, err := r.Lookup(ctx, name)
	if err == nil {
		return id, true
	}

	if errors.Is(err, ErrUnavailable) {
		r.logger.Warn("Identity lookup unavailable, treating as not found",
			zap.String("name", name),
			zap.Error(err))
	}

	return "", false
}

// Lookup performs the remote request and distinguishes absence from failure.
func (r *Resolver) Lookup(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNotFound
	}

	resp, err := r.client.NewRequest().
		Method(http.MethodGet).
		URL(r.baseURL + url.PathEscape(name)).
		Do(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent, resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("%w: unexpected status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	var p profile
	if err := sonic.Unmarshal(body, &p); err != nil {
		return "", fmt.Errorf("%w: malformed response: %w", ErrUnavailable, err)
	}

	if p.ID == "" {
		return "", ErrNotFound
	}

	r.logger.Debug("Resolved identity", zap.String("name", p.Name), zap.String("id", p.ID))

	return p.ID, nil
}
