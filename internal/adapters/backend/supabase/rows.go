package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"pet-diary/internal/platform/httpclient"
)

var errEmptyRepresentation = errors.New("backend returned no rows")

// httpRequest arma un request PostgREST con la representación de vuelta
// en las escrituras.
func httpRequest(ctx context.Context, c *Client, method, table string, q url.Values, in any, out any) httpclient.Request {
	extra := map[string]string{}
	if method != http.MethodGet {
		extra["Prefer"] = preferReturn
	}
	return httpclient.Request{
		Method:  method,
		Path:    rowsPath(table),
		Query:   q,
		Headers: c.authHeaders(ctx, extra),
		In:      in,
		Out:     out,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
