package google

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	spannerapi "google.golang.org/api/spanner/v1"
)

// AccessTokenEnv holds a ready-made access token, as printed by
// `gcloud auth print-access-token`. It takes precedence over Application
// Default Credentials.
const AccessTokenEnv = "CLOUDSDK_AUTH_ACCESS_TOKEN"

// Scopes requested for Spanner access.
var Scopes = []string{
	spannerapi.SpannerDataScope,
	spannerapi.SpannerAdminScope,
}

// NewTokenSource returns the credentials a Spanner client authenticates
// with: a static token from CLOUDSDK_AUTH_ACCESS_TOKEN when set, otherwise
// Application Default Credentials.
func NewTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if token := os.Getenv(AccessTokenEnv); token != "" {
		return oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: token,
			TokenType:   "Bearer",
		}), nil
	}

	ts, err := googleoauth.DefaultTokenSource(ctx, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("application default credentials: %w", err)
	}
	return oauth2.ReuseTokenSource(nil, ts), nil
}
