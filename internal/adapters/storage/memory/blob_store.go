package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"pet-diary/internal/ports/blob"
)

// BlobStore guarda archivos en memoria con las mismas reglas que el storage
// remoto: sin upsert un nombre repetido es conflicto.
type BlobStore struct {
	mu      sync.RWMutex
	objects map[string]blob.Object
	maxSize int
}

// NewBlobStore crea el store; maxSize <= 0 => sin límite.
func NewBlobStore(maxSize int) *BlobStore {
	return &BlobStore{
		objects: make(map[string]blob.Object),
		maxSize: maxSize,
	}
}

func (s *BlobStore) Upload(ctx context.Context, obj blob.Object) (string, error) {
	bucket := strings.Trim(obj.Bucket, "/")
	name := strings.Trim(obj.Name, "/")
	if bucket == "" || name == "" {
		return "", fmt.Errorf("%w: bucket and name required", blob.ErrRejected)
	}
	if s.maxSize > 0 && len(obj.Data) > s.maxSize {
		return "", blob.ErrTooLarge
	}

	path := bucket + "/" + name

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[path]; exists && !obj.Upsert {
		return "", blob.ErrConflict
	}
	obj.Data = append([]byte(nil), obj.Data...)
	s.objects[path] = obj
	return path, nil
}

// Get devuelve el objeto guardado en path ("bucket/name").
func (s *BlobStore) Get(path string) (blob.Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}
