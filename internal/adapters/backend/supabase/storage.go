package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"pet-diary/internal/platform/httpclient"
	"pet-diary/internal/ports/blob"

	"github.com/bytedance/sonic"
)

// BlobStore sube archivos a /storage/v1/object/{bucket}/{name}.
type BlobStore struct{ c *Client }

func NewBlobStore(c *Client) *BlobStore { return &BlobStore{c: c} }

func (s *BlobStore) Upload(ctx context.Context, obj blob.Object) (string, error) {
	bucket := strings.Trim(obj.Bucket, "/")
	name := strings.Trim(obj.Name, "/")
	if bucket == "" || name == "" {
		return "", fmt.Errorf("%w: bucket and name required", blob.ErrRejected)
	}

	ct := obj.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	headers := s.c.authHeaders(ctx, map[string]string{
		"x-upsert": strconv.FormatBool(obj.Upsert),
	})

	var out struct {
		Key string `json:"Key"`
	}
	err := s.c.http.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        "/storage/v1/object/" + url.PathEscape(bucket) + "/" + url.PathEscape(name),
		Headers:     headers,
		Body:        obj.Data,
		ContentType: ct,
		Out:         &out,
	})
	if err != nil {
		return "", storageError(err)
	}

	if out.Key != "" {
		return out.Key, nil
	}
	return bucket + "/" + name, nil
}

// storageError traduce la respuesta del storage a los errores del puerto.
// El storage a veces responde 400 con el status real en el body.
func storageError(err error) error {
	status := httpclient.StatusCode(err)
	if status == http.StatusBadRequest {
		if inner := bodyStatus(err); inner != 0 {
			status = inner
		}
	}

	switch status {
	case http.StatusConflict:
		return fmt.Errorf("%w: %v", blob.ErrConflict, err)
	case http.StatusRequestEntityTooLarge:
		return fmt.Errorf("%w: %v", blob.ErrTooLarge, err)
	case http.StatusBadRequest, http.StatusUnsupportedMediaType, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", blob.ErrRejected, err)
	default:
		return fmt.Errorf("%w: %v", blob.ErrUpstream, err)
	}
}

func bodyStatus(err error) int {
	var he *httpclient.HTTPError
	if !errors.As(err, &he) || he.Body == "" {
		return 0
	}
	var body struct {
		StatusCode string `json:"statusCode"`
	}
	if sonic.UnmarshalString(he.Body, &body) != nil {
		return 0
	}
	n, _ := strconv.Atoi(body.StatusCode)
	return n
}
