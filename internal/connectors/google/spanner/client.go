package spanner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	spannerapi "google.golang.org/api/spanner/v1"

	"github.com/custodia-labs/pitrseek/internal/connectors/google"
	"github.com/custodia-labs/pitrseek/internal/core/domain"
	"github.com/custodia-labs/pitrseek/internal/core/ports/driven"
	"github.com/custodia-labs/pitrseek/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.SnapshotReader    = (*Client)(nil)
	_ driven.DatabaseInspector = (*Client)(nil)
)

const (
	// serverTimeSQL reads the database clock.
	serverTimeSQL = "SELECT CURRENT_TIMESTAMP()"

	// sessionTimeout bounds session deletion on Close.
	sessionTimeout = 10 * time.Second
)

// Client reads one Spanner database through the REST API.
type Client struct {
	svc         *spannerapi.Service
	target      domain.DatabaseTarget
	rateLimiter *google.RateLimiter

	mu      sync.Mutex
	session string
}

// New opens a client for cfg.Target. No request is made until the first
// read.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}

	opts := google.ServiceOptions{
		Endpoint:    cfg.Endpoint,
		TokenSource: cfg.TokenSource,
		HTTPClient:  cfg.HTTPClient,
	}
	if opts.Endpoint == "" && opts.HTTPClient == nil && opts.TokenSource == nil {
		ts, err := google.NewTokenSource(ctx)
		if err != nil {
			return nil, err
		}
		opts.TokenSource = ts
	}

	svc, err := google.NewSpannerService(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("create spanner service: %w", err)
	}

	return &Client{
		svc:         svc,
		target:      cfg.Target,
		rateLimiter: google.NewRateLimiter(cfg.RateLimit),
	}, nil
}

// Target returns the database the client reads.
func (c *Client) Target() domain.DatabaseTarget {
	return c.target
}

// QueryAt runs sql in a single-use read-only snapshot at exactly ts.
func (c *Client) QueryAt(ctx context.Context, ts time.Time, sql string) ([]domain.Row, error) {
	rs, err := c.executeSQL(ctx, &spannerapi.ExecuteSqlRequest{
		Sql: sql,
		Transaction: &spannerapi.TransactionSelector{
			SingleUse: &spannerapi.TransactionOptions{
				ReadOnly: &spannerapi.ReadOnly{
					ReadTimestamp:       domain.FormatTimestamp(ts),
					ReturnReadTimestamp: true,
				},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	if rs.Metadata != nil && rs.Metadata.Transaction != nil {
		logger.Trace("  Read at %s", rs.Metadata.Transaction.ReadTimestamp)
	}
	return decodeRows(rs)
}

// ServerTime returns the database clock from a strong read.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	rs, err := c.executeSQL(ctx, &spannerapi.ExecuteSqlRequest{
		Sql: serverTimeSQL,
		Transaction: &spannerapi.TransactionSelector{
			SingleUse: &spannerapi.TransactionOptions{
				ReadOnly: &spannerapi.ReadOnly{Strong: true},
			},
		},
	})
	if err != nil {
		return time.Time{}, err
	}

	rows, err := decodeRows(rs)
	if err != nil {
		return time.Time{}, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return time.Time{}, errors.New("server time query returned no rows")
	}
	now, ok := rows[0][0].(time.Time)
	if !ok {
		return time.Time{}, fmt.Errorf("server time query returned %T", rows[0][0])
	}
	return now, nil
}

// Describe fetches the database metadata.
func (c *Client) Describe(ctx context.Context) (*domain.DatabaseInfo, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	db, err := c.svc.Projects.Instances.Databases.Get(c.target.Path()).Context(ctx).Do()
	if err != nil {
		return nil, c.wrapError(err, "get database")
	}

	info := &domain.DatabaseInfo{
		Name:            db.Name,
		State:           db.State,
		RetentionPeriod: db.VersionRetentionPeriod,
	}
	if db.EarliestVersionTime != "" {
		info.EarliestVersionTime, err = time.Parse(time.RFC3339Nano, db.EarliestVersionTime)
		if err != nil {
			return nil, fmt.Errorf("parse earliest version time: %w", err)
		}
	}
	return info, nil
}

// Close deletes the session, if one was created. It is safe to call more
// than once.
func (c *Client) Close() error {
	c.mu.Lock()
	session := c.session
	c.session = ""
	c.mu.Unlock()

	if session == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), sessionTimeout)
	defer cancel()

	logger.Debug("Deleting session %s", session)
	if _, err := c.svc.Projects.Instances.Databases.Sessions.Delete(session).Context(ctx).Do(); err != nil {
		return c.wrapError(err, "delete session")
	}
	return nil
}

// executeSQL runs req on the shared session. A session the server has
// forgotten is replaced and the request sent once more.
func (c *Client) executeSQL(ctx context.Context, req *spannerapi.ExecuteSqlRequest) (*spannerapi.ResultSet, error) {
	session, err := c.ensureSession(ctx)
	if err != nil {
		return nil, err
	}

	rs, err := c.execute(ctx, session, req)
	if google.IsSessionNotFound(err) {
		logger.Debug("Session %s expired, creating a new one", session)
		c.dropSession(session)
		if session, err = c.ensureSession(ctx); err != nil {
			return nil, err
		}
		rs, err = c.execute(ctx, session, req)
	}
	if err != nil {
		return nil, c.wrapError(err, "execute sql")
	}
	return rs, nil
}

func (c *Client) execute(
	ctx context.Context, session string, req *spannerapi.ExecuteSqlRequest,
) (*spannerapi.ResultSet, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}
	return c.svc.Projects.Instances.Databases.Sessions.ExecuteSql(session, req).Context(ctx).Do()
}

// ensureSession returns the shared session, creating it on first use.
func (c *Client) ensureSession(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != "" {
		return c.session, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	s, err := c.svc.Projects.Instances.Databases.Sessions.
		Create(c.target.Path(), &spannerapi.CreateSessionRequest{}).Context(ctx).Do()
	if err != nil {
		return "", c.wrapError(err, "create session")
	}

	logger.Debug("Created session %s", s.Name)
	c.session = s.Name
	return c.session, nil
}

func (c *Client) dropSession(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == name {
		c.session = ""
	}
}

// wrapError classifies err and adds the operation name.
func (c *Client) wrapError(err error, op string) error {
	if google.IsRateLimited(err) {
		c.rateLimiter.RecordRateLimitError(google.RetryAfter(err))
	}
	return fmt.Errorf("%s: %w", op, google.WrapError(err))
}
