// Package google provides shared infrastructure for the Cloud Spanner
// connector.
//
// This package contains the pieces every Google API client in pitrseek
// needs:
//   - Token sources built from Application Default Credentials
//   - Service factories with endpoint overrides for the emulator
//   - Classification of Spanner API errors into domain errors
//   - Rate limiting so a search never floods the database
//
// # Usage
//
//	ts, err := google.NewTokenSource(ctx)
//	svc, err := google.NewSpannerService(ctx, google.ServiceOptions{TokenSource: ts})
//
// # OAuth2 Scopes
//
// The Spanner connector only reads data and metadata, but the REST API has
// no read-only data scope, so it requests:
//   - https://www.googleapis.com/auth/spanner.data
//   - https://www.googleapis.com/auth/spanner.admin
package google
