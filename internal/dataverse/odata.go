package dataverse

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	dsferrors "github.com/mrz1836/dsf/internal/errors"
)

// maxPageSize is requested through the Prefer header; the server may use less.
const maxPageSize = 5000

type page[T any] struct {
	Value    []T    `json:"value"`
	NextLink string `json:"@odata.nextLink"`
}

type whoAmIResponse struct {
	UserID         string `json:"UserId"`
	BusinessUnitID string `json:"BusinessUnitId"`
	OrganizationID string `json:"OrganizationId"`
}

type apiError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// getAll fetches url and every page linked by @odata.nextLink.
func getAll[T any](ctx context.Context, c *Client, url string) ([]T, error) {
	var out []T
	for pages := 0; url != ""; pages++ {
		var p page[T]
		if err := c.getJSON(ctx, url, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Value...)
		url = p.NextLink

		zerolog.Ctx(ctx).Trace().Int("page", pages).Int("items", len(p.Value)).Bool("more", url != "").Msg("odata page")
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// getJSON issues a GET and decodes a JSON body. Transport failures and
// non-2xx statuses wrap ErrRemoteUnavailable.
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("OData-MaxVersion", "4.0")
	req.Header.Set("OData-Version", "4.0")
	req.Header.Set("Prefer", fmt.Sprintf("odata.maxpagesize=%d", maxPageSize))

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", dsferrors.ErrRemoteUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("%w: %s: %s", dsferrors.ErrRemoteUnavailable, resp.Status, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: %s", dsferrors.ErrRemoteUnavailable, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid response body: %w", dsferrors.ErrRemoteUnavailable, err)
	}
	return nil
}
