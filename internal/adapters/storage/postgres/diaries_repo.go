package postgres

import (
	"context"
	"fmt"
	"strings"

	"pet-diary/internal/domain/diaries"
)

const diaryColumns = `id, "authorId", title, content, COALESCE("imageUrl", ''), "createdAt", "isPublic"`

type DiariesRepo struct{ db *DB }

func NewDiariesRepo(db *DB) *DiariesRepo { return &DiariesRepo{db: db} }

func (r *DiariesRepo) Create(ctx context.Context, e diaries.Entry) (diaries.Entry, error) {
	q := `
INSERT INTO diaries ("authorId", title, content, "imageUrl", "createdAt", "isPublic")
VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)
RETURNING ` + diaryColumns
	row := r.db.Pool.QueryRow(ctx, q, e.AuthorID, e.Title, e.Content, e.ImageURL, e.CreatedAt, e.IsPublic)
	return scanDiary(row)
}

func (r *DiariesRepo) GetByID(ctx context.Context, id int64) (diaries.Entry, error) {
	q := `SELECT ` + diaryColumns + ` FROM diaries WHERE id = $1`
	e, err := scanDiary(r.db.Pool.QueryRow(ctx, q, id))
	if isNoRows(err) {
		return diaries.Entry{}, diaries.ErrNotFound
	}
	return e, err
}

func (r *DiariesRepo) ListByAuthor(ctx context.Context, authorID string, filter diaries.ListFilter) ([]diaries.Entry, error) {
	where := []string{`"authorId" = $1`}
	args := []any{authorID}

	if filter.From != nil {
		args = append(args, *filter.From)
		where = append(where, fmt.Sprintf(`"createdAt" >= $%d`, len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		where = append(where, fmt.Sprintf(`"createdAt" < $%d`, len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		where = append(where, fmt.Sprintf(`(title ILIKE $%d OR content ILIKE $%d)`, len(args), len(args)))
	}

	q := `SELECT ` + diaryColumns + ` FROM diaries WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY "createdAt" DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		q += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]diaries.Entry, 0)
	for rows.Next() {
		e, err := scanDiary(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Update nunca toca "authorId".
func (r *DiariesRepo) Update(ctx context.Context, id int64, patch diaries.Patch) (diaries.Entry, error) {
	set := make([]string, 0, 4)
	args := make([]any, 0, 5)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.ImageURL != nil {
		add(`"imageUrl"`, nullIfEmpty(*patch.ImageURL))
	}
	if patch.IsPublic != nil {
		add(`"isPublic"`, *patch.IsPublic)
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE diaries SET %s WHERE id = $%d RETURNING %s`, strings.Join(set, ", "), len(args), diaryColumns)

	e, err := scanDiary(r.db.Pool.QueryRow(ctx, q, args...))
	if isNoRows(err) {
		return diaries.Entry{}, diaries.ErrNotFound
	}
	return e, err
}

func scanDiary(row rowScanner) (diaries.Entry, error) {
	var e diaries.Entry
	if err := row.Scan(
		&e.ID,
		&e.AuthorID,
		&e.Title,
		&e.Content,
		&e.ImageURL,
		&e.CreatedAt,
		&e.IsPublic,
	); err != nil {
		return diaries.Entry{}, err
	}
	return e, nil
}
