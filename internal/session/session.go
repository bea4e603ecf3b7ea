// Package session guarda el estado de sesión de cada cliente: flags de
// inicialización y login, usuario actual, perfil cacheado y punteros
// auxiliares. No hay estado global: cada componente recibe explícitamente un
// Reader (sólo lectura) o un Writer (eventos de ciclo de vida).
package session

import (
	"sync"
	"time"

	"pet-diary/internal/ports/profiles"

	"github.com/google/uuid"
)

// State es la foto serializable de una sesión.
type State struct {
	Initialized   bool              `json:"initialized"`
	LoggedIn      bool              `json:"logged_in"`
	CurrentUserID *string           `json:"current_user_id"`
	Profile       *profiles.Profile `json:"profile"`
	FirstPetID    *int64            `json:"first_pet_id"`
}

// Reader es la capacidad de lectura que reciben vistas y servicios.
type Reader interface {
	ID() string
	State() State
	CurrentUserID() (string, bool)
	AltLoginProfile() *profiles.Profile
}

// Writer sólo lo usan los eventos de ciclo de vida (init, login, logout).
type Writer interface {
	Reader
	Initialize()
	LogIn(userID string, profile *profiles.Profile)
	LogOut()
	SetProfile(profile *profiles.Profile)
	SetFirstPetID(id *int64)
	SetAltLoginProfile(profile *profiles.Profile)
	ResetAltLoginProfile()
	SetAccessToken(token string)
}

type Session struct {
	id string

	mu      sync.RWMutex
	state   State
	alt     *profiles.Profile // slot separado del login alternativo
	touched time.Time

	// token de acceso verificado en el login; no se serializa en State.
	token string
}

var _ Writer = (*Session)(nil)

func (s *Session) ID() string { return s.id }

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) CurrentUserID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.LoggedIn || s.state.CurrentUserID == nil || *s.state.CurrentUserID == "" {
		return "", false
	}
	return *s.state.CurrentUserID, true
}

func (s *Session) AltLoginProfile() *profiles.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.alt
}

func (s *Session) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Initialized = true
}

func (s *Session) LogIn(userID string, profile *profiles.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	uid := userID
	s.state.LoggedIn = true
	s.state.CurrentUserID = &uid
	s.state.Profile = profile
}

// LogOut vuelve todos los campos de usuario a null/false.
func (s *Session) LogOut() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LoggedIn = false
	s.state.CurrentUserID = nil
	s.state.Profile = nil
	s.state.FirstPetID = nil
	s.alt = nil
	s.token = ""
}

func (s *Session) SetProfile(profile *profiles.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Profile = profile
}

func (s *Session) SetFirstPetID(id *int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.FirstPetID = id
}

func (s *Session) SetAltLoginProfile(profile *profiles.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alt = profile
}

// SetAccessToken guarda el token con el que se hizo login, para reenviarlo
// al backend en requests que sólo traen la cookie.
func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *Session) accessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.state.LoggedIn {
		return ""
	}
	return s.token
}

func (s *Session) ResetAltLoginProfile() {
	s.SetAltLoginProfile(nil)
}

// Store guarda una Session por cliente.
type Store struct {
	mu   sync.Mutex
	byID map[string]*Session

	idleTTL time.Duration
	now     func() time.Time
}

// NewStore crea un store; idleTTL <= 0 => las sesiones no expiran.
func NewStore(idleTTL time.Duration) *Store {
	return &Store{
		byID:    make(map[string]*Session),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Open crea una sesión nueva ya inicializada.
func (st *Store) Open() *Session {
	s := &Session{id: uuid.NewString(), touched: st.now()}
	s.Initialize()

	st.mu.Lock()
	st.byID[s.id] = s
	st.mu.Unlock()
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	s, ok := st.byID[id]
	if !ok {
		return nil, false
	}
	if st.idleTTL > 0 && st.now().Sub(s.touched) > st.idleTTL {
		delete(st.byID, id)
		return nil, false
	}
	s.touched = st.now()
	return s, true
}

func (st *Store) Drop(id string) {
	st.mu.Lock()
	delete(st.byID, id)
	st.mu.Unlock()
}

// Sweep borra sesiones inactivas y devuelve cuántas eliminó.
func (st *Store) Sweep() int {
	if st.idleTTL <= 0 {
		return 0
	}
	st.mu.Lock()
	defer st.mu.Unlock()

	n := 0
	for id, s := range st.byID {
		if st.now().Sub(s.touched) > st.idleTTL {
			delete(st.byID, id)
			n++
		}
	}
	return n
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.byID)
}
