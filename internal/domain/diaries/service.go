package diaries

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
}

type Options struct {
	Cache    *querycache.Cache
	Blobs    blob.Store
	Bucket   string // default "diaries"
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
		s.bucket = "diaries"
	}
	if s.notifier == nil {
		s.notifier = notify.Discard{}
	}
	if s.log == nil {
		s.log = logger.NewNop()
	}
	return s
}

// CacheKey es la raíz de las colecciones de un autor; los listados filtrados
// cuelgan de ella y se invalidan juntos.
func CacheKey(authorID string) querycache.Key {
	return querycache.Key{"diaries", authorID}
}

// Image es un archivo adjunto a la entrada, aún no subido.
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

type CreateInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content"`
	IsPublic bool   `json:"is_public"`
}

func (s *Service) Create(ctx context.Context, authorID string, in CreateInput, img *Image) (Entry, error) {
	if strings.TrimSpace(authorID) == "" {
		return Entry{}, ErrInvalidInput
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := validation.Struct(in); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var imagePath string
	if img != nil {
		path, err := s.uploadImage(ctx, *img)
		if err != nil {
			s.notifier.Notify(authorID, notify.LevelError, "diary image was not uploaded")
			return Entry{}, fmt.Errorf("upload diary image: %w", err)
		}
		imagePath = path
	}

	e, err := s.repo.Create(ctx, Entry{
		AuthorID:  authorID,
		Title:     in.Title,
		Content:   strings.TrimSpace(in.Content),
		ImageURL:  imagePath,
		CreatedAt: s.now(),
		IsPublic:  in.IsPublic,
	})
	if err != nil {
		s.notifier.Notify(authorID, notify.LevelError, "diary was not saved")
		return Entry{}, err
	}

	s.cache.Invalidate(CacheKey(authorID), false)
	s.notifier.Notify(authorID, notify.LevelSuccess, "diary saved")
	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (Entry, error) {
	if id <= 0 {
		return Entry{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// View es la entrada vista por un usuario concreto (o anónimo).
type View struct {
	Entry   Entry
	CanEdit bool
}

// Detail carga la entrada y resuelve si el visitante puede editarla.
// Las entradas privadas sólo existen para su autor.
func (s *Service) Detail(ctx context.Context, id int64, viewerID string) (View, error) {
	e, err := s.GetByID(ctx, id)
	if err != nil {
		return View{}, err
	}
	isAuthor := viewerID != "" && viewerID == e.AuthorID
	if !e.IsPublic && !isAuthor {
		return View{}, ErrNotFound
	}
	return View{Entry: e, CanEdit: isAuthor}, nil
}

// ListByAuthor lee la colección cacheada del autor. Sin authorID no se
// consulta el backend.
func (s *Service) ListByAuthor(ctx context.Context, authorID string, filter ListFilter) ([]Entry, error) {
	if strings.TrimSpace(authorID) == "" {
		return []Entry{}, nil
	}
	key := append(CacheKey(authorID), filter.cacheSuffix())
	return querycache.Read(ctx, s.cache, key, func(ctx context.Context) ([]Entry, error) {
		return s.repo.ListByAuthor(ctx, authorID, filter)
	})
}

type UpdateInput struct {
	Title    *string `json:"title" validate:"omitnil,min=1,max=200"`
	Content  *string `json:"content"`
	IsPublic *bool   `json:"is_public"`
}

// Update edita una entrada propia. Si hay imagen se sube antes de tocar la
// fila; si la subida falla no se actualiza nada.
func (s *Service) Update(ctx context.Context, authorID string, id int64, in UpdateInput, img *Image) (Entry, error) {
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		in.Title = &t
	}
	if err := validation.Struct(in); err != nil {
		return Entry{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Entry{}, err
	}
	if current.AuthorID != authorID {
		return Entry{}, ErrForbidden
	}

	patch := Patch{Title: in.Title, Content: in.Content, IsPublic: in.IsPublic}
	if img != nil {
		path, err := s.uploadImage(ctx, *img)
		if err != nil {
			s.log.Warn("diary image upload failed", map[string]any{"diary_id": id, "error": err})
			s.notifier.Notify(authorID, notify.LevelError, "diary image was not updated")
			return Entry{}, fmt.Errorf("upload diary image: %w", err)
		}
		patch.ImageURL = &path
	}
	if patch.IsEmpty() {
		return Entry{}, ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		if patch.ImageURL != nil {
			s.log.Warn("diary update failed after upload", map[string]any{
				"diary_id": id,
				"path":     *patch.ImageURL,
				"error":    err,
			})
		}
		s.notifier.Notify(authorID, notify.LevelError, "diary was not updated")
		return Entry{}, err
	}

	s.cache.Invalidate(CacheKey(authorID), false)
	s.notifier.Notify(authorID, notify.LevelSuccess, "diary updated")
	return updated, nil
}

func (s *Service) uploadImage(ctx context.Context, img Image) (string, error) {
	if len(img.Data) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrInvalidInput)
	}
	if s.blobs == nil {
		return "", fmt.Errorf("%w: no blob store configured", blob.ErrUpstream)
	}
	return s.blobs.Upload(ctx, blob.Object{
		Bucket:      s.bucket,
		Name:        s.fileName(filepath.Ext(img.Name)),
		ContentType: img.ContentType,
		Data:        img.Data,
		Upsert:      true,
	})
}
