package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"pet-diary/internal/domain/diaries"
)

const diariesTable = "diaries"

type diaryRow struct {
	ID        int64     `json:"id,omitempty"`
	AuthorID  string    `json:"authorId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
	IsPublic  bool      `json:"isPublic"`
}

func (r diaryRow) toEntry() diaries.Entry {
	return diaries.Entry{
		ID:        r.ID,
		AuthorID:  r.AuthorID,
		Title:     r.Title,
		Content:   r.Content,
		ImageURL:  deref(r.ImageURL),
		CreatedAt: r.CreatedAt,
		IsPublic:  r.IsPublic,
	}
}

type DiariesRepo struct{ c *Client }

func NewDiariesRepo(c *Client) *DiariesRepo { return &DiariesRepo{c: c} }

func (r *DiariesRepo) Create(ctx context.Context, e diaries.Entry) (diaries.Entry, error) {
	in := diaryRow{
		AuthorID:  e.AuthorID,
		Title:     e.Title,
		Content:   e.Content,
		ImageURL:  nullable(e.ImageURL),
		CreatedAt: e.CreatedAt,
		IsPublic:  e.IsPublic,
	}
	var out []diaryRow
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodPost, diariesTable, nil, in, &out)); err != nil {
		return diaries.Entry{}, err
	}
	if len(out) == 0 {
		return diaries.Entry{}, errEmptyRepresentation
	}
	return out[0].toEntry(), nil
}

func (r *DiariesRepo) GetByID(ctx context.Context, id int64) (diaries.Entry, error) {
	var out []diaryRow
	q := url.Values{"select": {"*"}, "id": {eqID(id)}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodGet, diariesTable, q, nil, &out)); err != nil {
		return diaries.Entry{}, err
	}
	if len(out) == 0 {
		return diaries.Entry{}, diaries.ErrNotFound
	}
	return out[0].toEntry(), nil
}

func (r *DiariesRepo) ListByAuthor(ctx context.Context, authorID string, filter diaries.ListFilter) ([]diaries.Entry, error) {
	q := url.Values{
		"select":   {"*"},
		"authorId": {eq(authorID)},
		"order":    {"createdAt.desc,id.desc"},
	}
	if filter.From != nil {
		q.Add("createdAt", "gte."+filter.From.UTC().Format(time.RFC3339))
	}
	if filter.To != nil {
		q.Add("createdAt", "lt."+filter.To.UTC().Format(time.RFC3339))
	}
	if s := postgrestLiteral(filter.Query); s != "" {
		q.Set("or", "(title.ilike.*"+s+"*,content.ilike.*"+s+"*)")
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var out []diaryRow
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodGet, diariesTable, q, nil, &out)); err != nil {
		return nil, err
	}
	items := make([]diaries.Entry, 0, len(out))
	for _, row := range out {
		items = append(items, row.toEntry())
	}
	return items, nil
}

// Update nunca envía "authorId".
func (r *DiariesRepo) Update(ctx context.Context, id int64, patch diaries.Patch) (diaries.Entry, error) {
	body := map[string]any{}
	if patch.Title != nil {
		body["title"] = *patch.Title
	}
	if patch.Content != nil {
		body["content"] = *patch.Content
	}
	if patch.ImageURL != nil {
		body["imageUrl"] = nullable(*patch.ImageURL)
	}
	if patch.IsPublic != nil {
		body["isPublic"] = *patch.IsPublic
	}
	if len(body) == 0 {
		return r.GetByID(ctx, id)
	}

	var out []diaryRow
	q := url.Values{"id": {eqID(id)}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodPatch, diariesTable, q, body, &out)); err != nil {
		return diaries.Entry{}, err
	}
	if len(out) == 0 {
		return diaries.Entry{}, diaries.ErrNotFound
	}
	return out[0].toEntry(), nil
}

// postgrestLiteral quita los caracteres reservados de la sintaxis de filtros.
func postgrestLiteral(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case ',', '(', ')', '*', '"', '\\':
			return -1
		}
		return r
	}, s))
}
