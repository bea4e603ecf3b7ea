package diaries

import "time"

// Entry es una entrada del diario. AuthorID no cambia después de crearla.
type Entry struct {
	ID       int64
	AuthorID string

	Title   string
	Content string

	// Path en storage ("diaries/<archivo>"), vacío si no tiene imagen.
	ImageURL string

	CreatedAt time.Time
	IsPublic  bool
}

// Patch es una escritura parcial: nil = no tocar.
// No incluye AuthorID: el autor es inmutable.
type Patch struct {
	Title    *string
	Content  *string
	ImageURL *string
	IsPublic *bool
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.ImageURL == nil && p.IsPublic == nil
}

// ApplyTo aplica el patch sobre e (usado por repos que no hablan SQL).
func (p Patch) ApplyTo(e *Entry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}
}
