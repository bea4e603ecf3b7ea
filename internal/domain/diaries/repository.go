package diaries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound lo devuelven todos los adapters cuando la fila no existe.
var ErrNotFound = errors.New("diary not found")

type Repository interface {
	Create(ctx context.Context, e Entry) (Entry, error)
	GetByID(ctx context.Context, id int64) (Entry, error)
	ListByAuthor(ctx context.Context, authorID string, filter ListFilter) ([]Entry, error)
	Update(ctx context.Context, id int64, patch Patch) (Entry, error)
}

// ListFilter acota el listado por rango de created_at y texto.
// Los resultados van de más nuevo a más viejo.
type ListFilter struct {
	From  *time.Time // inclusive
	To    *time.Time // exclusive
	Query string     // busca en título y contenido
	Limit int        // 0 = sin límite
}

// Matches evalúa el filtro en memoria (repos sin SQL).
func (f ListFilter) Matches(e Entry) bool {
	if f.From != nil && e.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !e.CreatedAt.Before(*f.To) {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(e.Title), q) && !strings.Contains(strings.ToLower(e.Content), q) {
			return false
		}
	}
	return true
}

// cacheSuffix identifica el filtro dentro de la colección cacheada del autor.
func (f ListFilter) cacheSuffix() string {
	var b strings.Builder
	if f.From != nil {
		b.WriteString(f.From.UTC().Format(time.RFC3339))
	}
	b.WriteByte('|')
	if f.To != nil {
		b.WriteString(f.To.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "|%s|%d", strings.ToLower(strings.TrimSpace(f.Query)), f.Limit)
	return b.String()
}
