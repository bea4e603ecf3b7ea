package blob

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/xid"
)

var (
	ErrConflict = errors.New("blob: object already exists")
	ErrTooLarge = errors.New("blob: object too large")
	ErrRejected = errors.New("blob: object rejected")
	ErrUpstream = errors.New("blob: upstream error")
)

// Object es un archivo a subir a un bucket.
type Object struct {
	Bucket      string
	Name        string
	ContentType string
	Data        []byte

	// Upsert permite sobrescribir un objeto con el mismo nombre.
	Upsert bool
}

// Store sube archivos y devuelve el path almacenado ("bucket/name"),
// que luego se guarda en la fila y se usa para armar la URL pública.
type Store interface {
	Upload(ctx context.Context, obj Object) (string, error)
}

// UniqueName genera "<xid><ext>", p.ej. "cv37rs3pp9olc6atsptg.png".
func UniqueName(ext string) string {
	return xid.New().String() + strings.ToLower(ext)
}
