// Package loadstate modela el ciclo de vida explícito de una carga de datos
// para las vistas: loading -> success | error | not_found, o skipped cuando
// falta una precondición (p.ej. usuario sin autenticar).
package loadstate

import (
	"context"
	"errors"
)

type Status string

const (
	StatusLoading  Status = "loading"
	StatusSuccess  Status = "success"
	StatusError    Status = "error"
	StatusNotFound Status = "not_found"
	StatusSkipped  Status = "skipped"
)

// ErrSkipped lo devuelve un loader cuando decide no cargar (no es un fallo).
var ErrSkipped = errors.New("load skipped")

type Result[T any] struct {
	Status Status `json:"status"`
	Data   *T     `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Loading es el estado inicial, antes de ejecutar el loader.
func Loading[T any]() Result[T] {
	return Result[T]{Status: StatusLoading}
}

// Load ejecuta fn y resuelve el estado. isNotFound clasifica errores de
// "no existe"; si es nil, ningún error se trata como not_found.
func Load[T any](ctx context.Context, fn func(ctx context.Context) (T, error), isNotFound func(error) bool) Result[T] {
	res := Loading[T]()

	v, err := fn(ctx)
	switch {
	case err == nil:
		res.Status = StatusSuccess
		res.Data = &v
	case errors.Is(err, ErrSkipped):
		res.Status = StatusSkipped
	case isNotFound != nil && isNotFound(err):
		res.Status = StatusNotFound
		res.Error = "not found"
	default:
		res.Status = StatusError
		res.Error = err.Error()
	}
	return res
}

func (r Result[T]) OK() bool {
	return r.Status == StatusSuccess
}
