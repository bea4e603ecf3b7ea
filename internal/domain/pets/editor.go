package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"pet-diary/internal/platform/notify"
	"pet-diary/internal/platform/validation"
)

var (
	ErrNotEditing    = errors.New("not in edit mode")
	ErrNoEditSession = errors.New("no edit session for pet")
	ErrEmptyFile     = errors.New("empty file")
)

type EditState string

const (
	StateViewing EditState = "viewing"
	StateEditing EditState = "editing"
)

// Snapshot es la copia local y descartable de los campos editables.
type Snapshot struct {
	Name     string  `json:"name" validate:"required"`
	Breed    string  `json:"breed"`
	Gender   Gender  `json:"gender" validate:"omitempty,oneof=male female"`
	Age      int     `json:"age" validate:"gte=0"`
	Weight   float64 `json:"weight" validate:"gt=0"`
	Comment  string  `json:"comment"`
	Birth    string  `json:"birth" validate:"omitempty,datetime=2006-01-02"`
	ImageURL string  `json:"image_url"`
}

func snapshotOf(p Pet) Snapshot {
	return Snapshot{
		Name:     p.Name,
		Breed:    p.Breed,
		Gender:   p.Gender,
		Age:      p.Age,
		Weight:   p.Weight,
		Comment:  p.Comment,
		Birth:    p.Birth,
		ImageURL: p.ImageURL,
	}
}

// toPatch arma la escritura parcial con todos los campos editados.
func (s Snapshot) toPatch(imagePath string) Patch {
	name, breed, gender, comment, birth := s.Name, s.Breed, s.Gender, s.Comment, s.Birth
	age, weight := s.Age, s.Weight
	return Patch{
		Name:     &name,
		Breed:    &breed,
		Gender:   &gender,
		Age:      &age,
		Weight:   &weight,
		Comment:  &comment,
		Birth:    &birth,
		ImageURL: &imagePath,
	}
}

// FieldChanges son los bindings del formulario: nil = campo sin tocar.
// La imagen no se edita por acá, sólo vía StageFile.
type FieldChanges struct {
	Name    *string  `json:"name"`
	Breed   *string  `json:"breed"`
	Gender  *Gender  `json:"gender"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
	Comment *string  `json:"comment"`
	Birth   *string  `json:"birth"`
}

func (c FieldChanges) applyTo(s *Snapshot) {
	if c.Name != nil {
		s.Name = strings.TrimSpace(*c.Name)
	}
	if c.Breed != nil {
		s.Breed = strings.TrimSpace(*c.Breed)
	}
	if c.Gender != nil {
		s.Gender = *c.Gender
	}
	if c.Age != nil {
		s.Age = *c.Age
	}
	if c.Weight != nil {
		s.Weight = *c.Weight
	}
	if c.Comment != nil {
		s.Comment = strings.TrimSpace(*c.Comment)
	}
	if c.Birth != nil {
		s.Birth = strings.TrimSpace(*c.Birth)
	}
}

// StagedFile es la imagen elegida en el formulario, aún no subida.
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Editor es la máquina de estados de edición de un perfil:
// Viewing -> Editing(snapshot) -> Viewing (cancel o submit OK).
type Editor struct {
	svc     *Service
	ownerID string

	mu       sync.Mutex
	state    EditState
	petID    int64
	original Snapshot
	draft    Snapshot
	file     *StagedFile
}

func (s *Service) NewEditor(ownerID string) *Editor {
	return &Editor{
		svc:     s,
		ownerID: ownerID,
		state:   StateViewing,
	}
}

func (e *Editor) State() EditState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Begin entra en modo edición copiando los valores actuales de p.
// Si ya había otra edición en curso se descarta.
func (e *Editor) Begin(p Pet) (Snapshot, error) {
	if p.OwnerID != e.ownerID {
		return Snapshot{}, ErrForbidden
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.state = StateEditing
	e.petID = p.ID
	e.original = snapshotOf(p)
	e.draft = e.original
	e.file = nil
	return e.draft, nil
}

// Draft devuelve el snapshot en edición.
func (e *Editor) Draft() (Snapshot, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return Snapshot{}, false
	}
	return e.draft, true
}

func (e *Editor) Apply(ch FieldChanges) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return Snapshot{}, ErrNotEditing
	}
	ch.applyTo(&e.draft)
	return e.draft, nil
}

func (e *Editor) StageFile(f StagedFile) error {
	if len(f.Data) == 0 {
		return ErrEmptyFile
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return ErrNotEditing
	}
	e.file = &f
	return nil
}

// HasStagedFile reporta si hay una imagen pendiente de subir.
func (e *Editor) HasStagedFile() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file != nil
}

// Cancel descarta el snapshot sin llamadas remotas y devuelve los valores
// originales.
func (e *Editor) Cancel() (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateEditing {
		return Snapshot{}, ErrNotEditing
	}
	orig := e.original
	e.reset()
	return orig, nil
}

// Submit sube la imagen (si hay), luego actualiza la fila. Si la subida
// falla no se actualiza nada y el editor sigue en Editing.
func (e *Editor) Submit(ctx context.Context) (Pet, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != StateEditing {
		return Pet{}, ErrNotEditing
	}
	if err := validation.Struct(e.draft); err != nil {
		e.svc.notifier.Notify(e.ownerID, notify.LevelError, "pet profile is not valid")
		return Pet{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	imagePath := e.draft.ImageURL
	uploaded := false
	if e.file != nil {
		path, err := e.svc.uploadImage(ctx, *e.file)
		if err != nil {
			e.svc.log.Warn("pet image upload failed", map[string]any{
				"pet_id": e.petID,
				"error":  err,
			})
			e.svc.notifier.Notify(e.ownerID, notify.LevelError, "pet image was not updated")
			return Pet{}, fmt.Errorf("upload pet image: %w", err)
		}
		imagePath = path
		uploaded = true
	}

	updated, err := e.svc.Update(ctx, e.ownerID, e.petID, e.draft.toPatch(imagePath))
	if err != nil {
		if uploaded {
			// el archivo nuevo queda huérfano en storage
			e.svc.log.Warn("pet update failed after upload", map[string]any{
				"pet_id": e.petID,
				"path":   imagePath,
				"error":  err,
			})
		}
		e.svc.notifier.Notify(e.ownerID, notify.LevelError, "pet profile was not updated")
		return Pet{}, err
	}

	e.reset()
	e.svc.notifier.Notify(e.ownerID, notify.LevelSuccess, "pet profile updated")
	return updated, nil
}

func (e *Editor) reset() {
	e.state = StateViewing
	e.petID = 0
	e.original = Snapshot{}
	e.draft = Snapshot{}
	e.file = nil
}

type editKey struct {
	ownerID string
	petID   int64
}

// DefaultEditIdleTTL es cuánto vive una edición sin actividad.
const DefaultEditIdleTTL = 30 * time.Minute

type editEntry struct {
	ed      *Editor
	touched time.Time
}

// EditSessions guarda los editores vivos por (usuario, mascota) para los
// endpoints de edición paso a paso. Las ediciones sin actividad por más de
// idleTTL se descartan junto con la imagen staged.
type EditSessions struct {
	svc *Service

	mu      sync.Mutex
	byKey   map[editKey]*editEntry
	idleTTL time.Duration
	now     func() time.Time
}

// NewEditSessions crea el registro; idleTTL <= 0 => DefaultEditIdleTTL.
func NewEditSessions(svc *Service, idleTTL time.Duration) *EditSessions {
	if idleTTL <= 0 {
		idleTTL = DefaultEditIdleTTL
	}
	s := &EditSessions{
		svc:     svc,
		byKey:   make(map[editKey]*editEntry),
		idleTTL: idleTTL,
		now:     time.Now,
	}
	// una mascota borrada no puede seguir en edición
	svc.deleted = append(svc.deleted, s.Drop)
	return s
}

func (s *EditSessions) Begin(ctx context.Context, ownerID string, petID int64) (Snapshot, error) {
	p, err := s.svc.GetByID(ctx, petID)
	if err != nil {
		return Snapshot{}, err
	}

	ed := s.svc.NewEditor(ownerID)
	snap, err := ed.Begin(p)
	if err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	s.byKey[editKey{ownerID, petID}] = &editEntry{ed: ed, touched: s.now()}
	s.mu.Unlock()
	return snap, nil
}

func (s *EditSessions) Get(ownerID string, petID int64) (*Editor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := editKey{ownerID, petID}
	e, ok := s.byKey[k]
	if !ok {
		return nil, ErrNoEditSession
	}
	if s.expired(e) {
		delete(s.byKey, k)
		return nil, ErrNoEditSession
	}
	e.touched = s.now()
	return e.ed, nil
}

func (s *EditSessions) Cancel(ownerID string, petID int64) (Snapshot, error) {
	ed, err := s.Get(ownerID, petID)
	if err != nil {
		return Snapshot{}, err
	}
	snap, err := ed.Cancel()
	s.Drop(ownerID, petID)
	return snap, err
}

// Submit ejecuta el submit; sólo si sale bien se cierra la sesión.
func (s *EditSessions) Submit(ctx context.Context, ownerID string, petID int64) (Pet, error) {
	ed, err := s.Get(ownerID, petID)
	if err != nil {
		return Pet{}, err
	}
	p, err := ed.Submit(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// la mascota ya no existe: no hay nada que reintentar
			s.Drop(ownerID, petID)
		}
		return Pet{}, err
	}
	s.Drop(ownerID, petID)
	return p, nil
}

// Drop descarta la edición de (ownerID, petID), si existe.
func (s *EditSessions) Drop(ownerID string, petID int64) {
	s.mu.Lock()
	delete(s.byKey, editKey{ownerID, petID})
	s.mu.Unlock()
}

// Sweep borra las ediciones inactivas y devuelve cuántas eliminó.
func (s *EditSessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k, e := range s.byKey {
		if s.expired(e) {
			delete(s.byKey, k)
			n++
		}
	}
	return n
}

func (s *EditSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byKey)
}

func (s *EditSessions) expired(e *editEntry) bool {
	return s.now().Sub(e.touched) > s.idleTTL
}
