package pets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"pet-diary/internal/platform/logger"
	"pet-diary/internal/platform/notify"
	"pet-diary/internal/platform/querycache"
	"pet-diary/internal/platform/validation"
	"pet-diary/internal/ports/blob"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo     Repository
	cache    *querycache.Cache
	blobs    blob.Store
	bucket   string
	notifier notify.Notifier
	log      logger.Logger

	now      func() time.Time
	fileName func(ext string) string

	// deleted se llama tras cada borrado exitoso (p.ej. cerrar ediciones).
	deleted []func(ownerID string, id int64)
}

type Options struct {
	Cache    *querycache.Cache
	Blobs    blob.Store
	Bucket   string // default "pets"
	Notifier notify.Notifier
	Logger   logger.Logger
}

func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:     repo,
		cache:    opts.Cache,
		blobs:    opts.Blobs,
		bucket:   strings.TrimSpace(opts.Bucket),
		notifier: opts.Notifier,
		log:      opts.Logger,
		now:      time.Now,
		fileName: blob.UniqueName,
	}
	if s.cache == nil {
		s.cache = querycache.New(0)
	}
	if s.bucket == "" {
		s.bucket = "pets"
	}
	if s.notifier == nil {
		s.notifier = notify.Discard{}
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	return s
}

// CacheKey es la clave de la colección de mascotas de un dueño.
func CacheKey(ownerID string) querycache.Key {
	return querycache.Key{"pets", ownerID}
}

type CreateInput struct {
	Name     string  `json:"name" validate:"required"`
	Breed    string  `json:"breed"`
	Gender   Gender  `json:"gender" validate:"omitempty,oneof=male female"`
	Age      int     `json:"age" validate:"gte=0"`
	Weight   float64 `json:"weight" validate:"gt=0"`
	Comment  string  `json:"comment"`
	Birth    string  `json:"birth" validate:"omitempty,datetime=2006-01-02"`
	ImageURL string  `json:"image_url"`
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Pet{}, ErrInvalidInput
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return Pet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	p, err := s.repo.Create(ctx, Pet{
		OwnerID:   ownerID,
		Name:      in.Name,
		Breed:     strings.TrimSpace(in.Breed),
		Gender:    in.Gender,
		Age:       in.Age,
		Weight:    in.Weight,
		Comment:   strings.TrimSpace(in.Comment),
		Birth:     in.Birth,
		ImageURL:  in.ImageURL,
		CreatedAt: s.now(),
	})
	if err != nil {
		return Pet{}, err
	}

	s.cache.Invalidate(CacheKey(ownerID), true)
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Pet, error) {
	if id <= 0 {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// ListByOwner lee la colección cacheada del dueño. Sin ownerID (usuario aún
// no autenticado) no se consulta el backend y se devuelve vacío.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	if strings.TrimSpace(ownerID) == "" {
		return []Pet{}, nil
	}
	return querycache.Read(ctx, s.cache, CacheKey(ownerID), func(ctx context.Context) ([]Pet, error) {
		return s.repo.ListByOwner(ctx, ownerID)
	})
}

// Update aplica una escritura parcial e invalida la colección del dueño.
func (s *Service) Update(ctx context.Context, ownerID string, id int64, patch Patch) (Pet, error) {
	if patch.IsEmpty() {
		return Pet{}, ErrInvalidInput
	}
	p, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return Pet{}, err
	}
	s.cache.Invalidate(CacheKey(ownerID), true)
	return p, nil
}

// Delete borra la mascota (una sola llamada remota) e invalida la colección.
func (s *Service) Delete(ctx context.Context, ownerID string, id int64) error {
	if err := s.requireOwner(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.notifier.Notify(ownerID, notify.LevelError, "pet was not deleted")
		return err
	}
	s.cache.Invalidate(CacheKey(ownerID), true)
	for _, fn := range s.deleted {
		fn(ownerID, id)
	}
	s.notifier.Notify(ownerID, notify.LevelSuccess, "pet deleted")
	return nil
}

// FirstPetID devuelve el id de la primera mascota del dueño, o nil si no tiene.
func (s *Service) FirstPetID(ctx context.Context, ownerID string) (*int64, error) {
	items, err := s.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	id := items[0].ID
	return &id, nil
}

func (s *Service) requireOwner(ctx context.Context, ownerID string, id int64) error {
	owner, err := s.OwnerOf(ctx, id)
	if err != nil {
		return err
	}
	if owner != ownerID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) uploadImage(ctx context.Context, f StagedFile) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("%w: no blob store configured", blob.ErrUpstream)
	}
	return s.blobs.Upload(ctx, blob.Object{
		Bucket:      s.bucket,
		Name:        s.fileName(filepath.Ext(f.Name)),
		ContentType: f.ContentType,
		Data:        f.Data,
		Upsert:      true,
	})
}
