// Package supabase habla con el backend hosteado por HTTP: filas vía
// PostgREST (/rest/v1) y archivos vía Storage (/storage/v1).
package supabase

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-diary/internal/platform/httpclient"
	"pet-diary/internal/ports/auth"
)

var ErrNotConfigured = errors.New("backend client not configured")

type Config struct {
	URL    string
	APIKey string

	Timeout time.Duration
}

// Client comparte la conexión entre repos y storage.
type Client struct {
	http   *httpclient.Client
	apiKey string
}

func NewClient(cfg Config) (*Client, error) {
	key := strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.URL) == "" || key == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.URL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.Headers = map[string]string{"apikey": key}
	return &Client{http: hc, apiKey: key}, nil
}

// authHeaders reenvía el token del usuario (para que apliquen las políticas
// de filas); sin usuario se usa la API key.
func (c *Client) authHeaders(ctx context.Context, extra map[string]string) map[string]string {
	token := c.apiKey
	if claims, ok := auth.FromContext(ctx); ok && strings.TrimSpace(claims.Token) != "" {
		token = claims.Token
	}
	h := map[string]string{"Authorization": "Bearer " + token}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

func eq(v string) string { return "eq." + v }

func eqID(id int64) string { return eq(strconv.FormatInt(id, 10)) }

func rowsPath(table string) string { return "/rest/v1/" + url.PathEscape(table) }

const preferReturn = "return=representation"
