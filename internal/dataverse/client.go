// Package dataverse implements the remote directory over the Dataverse Web API
// using a service principal (OAuth2 client credentials).
package dataverse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/dsf/internal/constants"
	"github.com/mrz1836/dsf/internal/domain"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

// Config holds what is needed to reach one organization.
type Config struct {
	// URL is the organization root, e.g. https://contoso.crm.dynamics.com.
	URL          string
	TenantID     string
	ClientID     string
	ClientSecret string
	Authority    string
	APIVersion   string
	Timeout      time.Duration
}

// Validate checks that the connection settings are complete.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("dataverse url is required: %w", dsferrors.ErrConfigInvalidDataverse)
	}
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("dataverse url %q is not an absolute URL: %w", c.URL, dsferrors.ErrConfigInvalidDataverse)
	}
	if c.TenantID == "" || c.ClientID == "" {
		return fmt.Errorf("tenant id and client id are required: %w", dsferrors.ErrMissingCredentials)
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("client secret is empty: %w", dsferrors.ErrMissingCredentials)
	}
	return nil
}

func (c Config) withDefaults() Config {
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Authority == "" {
		c.Authority = constants.DefaultAuthority
	}
	c.Authority = strings.TrimRight(c.Authority, "/")
	if c.APIVersion == "" {
		c.APIVersion = constants.DefaultAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = constants.DefaultRemoteTimeout
	}
	return c
}

// TokenURL returns the client-credentials token endpoint for the tenant.
func (c Config) TokenURL() string {
	return fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.Authority, url.PathEscape(c.TenantID))
}

// Option configures a Client.
type Option func(*options)

type options struct {
	base        *http.Client
	batchSize   int
	concurrency int
}

// WithHTTPClient sets the client used for token and API requests before
// authentication is layered on.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.base = c
	}
}

// WithBatchSize overrides how many schema names go into one variable filter.
func WithBatchSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithConcurrency bounds how many variable batches are fetched at once.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// Client is a ready Dataverse session.
type Client struct {
	http        *http.Client
	apiBase     string
	batchSize   int
	concurrency int

	mu     sync.Mutex
	closed bool
}

// Connect authenticates and confirms the session with a WhoAmI request, so
// the returned Client is ready to query. Failures wrap ErrRemoteUnavailable.
func Connect(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	o := options{batchSize: constants.VariableFilterBatchSize, concurrency: constants.VariableFetchConcurrency}
	for _, opt := range opts {
		opt(&o)
	}

	tokenCtx := ctx
	if o.base != nil {
		tokenCtx = context.WithValue(ctx, oauth2.HTTPClient, o.base)
	}

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL(),
		Scopes:       []string{cfg.URL + "/.default"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = cfg.Timeout

	c := &Client{
		http:        httpClient,
		apiBase:     fmt.Sprintf("%s/api/data/%s", cfg.URL, cfg.APIVersion),
		batchSize:   o.batchSize,
		concurrency: o.concurrency,
	}

	var who whoAmIResponse
	if err := c.getJSON(ctx, c.apiBase+"/WhoAmI", &who); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.URL, err)
	}

	zerolog.Ctx(ctx).Info().
		Str("url", cfg.URL).
		Str("user_id", who.UserID).
		Str("organization_id", who.OrganizationID).
		Msg("connected to dataverse")

	return c, nil
}

// ListConnectionReferenceRecords returns every connection reference instance.
func (c *Client) ListConnectionReferenceRecords(ctx context.Context) ([]domain.ConnectorRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("$select", "connectorid,connectionid")

	records, err := getAll[domain.ConnectorRecord](ctx, c, c.apiBase+"/connectionreferences?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to list connection references: %w", err)
	}

	zerolog.Ctx(ctx).Debug().Int("count", len(records)).Msg("connection references fetched")
	return records, nil
}

// ListVariableValueRecords returns the values whose schema name is in
// schemaNames, querying in batches to keep each filter short. Batches run
// concurrently; records come back in batch order.
func (c *Client) ListVariableValueRecords(ctx context.Context, schemaNames []string) ([]domain.VariableValueRecord, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	names := dedupe(schemaNames)
	batches := chunk(names, c.batchSize)
	results := make([][]domain.VariableValueRecord, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			q := url.Values{}
			q.Set("$select", "schemaname,value")
			q.Set("$filter", schemaNameFilter(batch))

			recs, err := getAll[domain.VariableValueRecord](gctx, c, c.apiBase+"/environmentvariablevalues?"+q.Encode())
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to list environment variable values: %w", err)
	}

	records := slices.Concat(results...)
	zerolog.Ctx(ctx).Debug().Int("names", len(names)).Int("count", len(records)).Msg("environment variable values fetched")
	return records, nil
}

// Close ends the session. Later queries fail with ErrRemoteUnavailable.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	c.http.CloseIdleConnections()
	return nil
}

func (c *Client) ready() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("session closed: %w", dsferrors.ErrRemoteUnavailable)
	}
	return nil
}

// schemaNameFilter builds an OData filter matching any of names.
func schemaNameFilter(names []string) string {
	terms := make([]string, len(names))
	for i, n := range names {
		terms[i] = "schemaname eq '" + strings.ReplaceAll(n, "'", "''") + "'"
	}
	return strings.Join(terms, " or ")
}

// chunk splits names into consecutive batches of at most size.
func chunk(names []string, size int) [][]string {
	batches := make([][]string, 0, (len(names)+size-1)/size)
	for start := 0; start < len(names); start += size {
		batches = append(batches, names[start:min(start+size, len(names))])
	}
	return batches
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
