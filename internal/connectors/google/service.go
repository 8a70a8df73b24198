package google

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	spannerapi "google.golang.org/api/spanner/v1"
)

// ServiceOptions configures a Spanner API service.
type ServiceOptions struct {
	// Endpoint overrides the API endpoint, e.g. the emulator's REST gateway
	// at localhost:9020. Requests to an override are not authenticated.
	Endpoint string

	// TokenSource authenticates requests to the default endpoint.
	TokenSource oauth2.TokenSource

	// HTTPClient replaces the transport entirely. Used by tests.
	HTTPClient *http.Client
}

// NewSpannerService creates a Spanner API service.
func NewSpannerService(ctx context.Context, opts ServiceOptions) (*spannerapi.Service, error) {
	var clientOpts []option.ClientOption

	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(NormaliseEndpoint(opts.Endpoint)))
	}

	switch {
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	case opts.Endpoint != "":
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	case opts.TokenSource != nil:
		clientOpts = append(clientOpts, option.WithTokenSource(opts.TokenSource))
	}

	return spannerapi.NewService(ctx, clientOpts...)
}

// NormaliseEndpoint turns host:port into an http base URL with a trailing
// slash. Endpoints that already carry a scheme keep it.
func NormaliseEndpoint(endpoint string) string {
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}
	return endpoint
}
