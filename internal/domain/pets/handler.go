package pets

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"pet-diary/internal/middleware"
	"pet-diary/internal/platform/httputil"
	"pet-diary/internal/platform/storageurl"
	"pet-diary/internal/ports/blob"

	"github.com/go-chi/chi/v5"
)

// MaxImageSize limita el tamaño de la imagen que se acepta en el form.
const MaxImageSize = 5 << 20

// maxRequestBody deja margen para los campos de texto del form.
const maxRequestBody = MaxImageSize + 1<<20

func RegisterRoutes(r chi.Router, svc *Service, edits *EditSessions, publicBaseURL string) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, publicBaseURL))
		pr.Get("/", listPetsHandler(svc, publicBaseURL))

		pr.Get("/{petID}", getPetHandler(svc, publicBaseURL))
		pr.Patch("/{petID}", updatePetHandler(svc, publicBaseURL))
		pr.Delete("/{petID}", deletePetHandler(svc))

		// Edición paso a paso (modo edición del perfil)
		pr.Route("/{petID}/edit", func(er chi.Router) {
			er.Post("/", beginEditHandler(edits))
			er.Patch("/", applyEditHandler(edits))
			er.Put("/image", stageImageHandler(edits))
			er.Delete("/", cancelEditHandler(edits))
			er.Post("/submit", submitEditHandler(edits, publicBaseURL))
		})
	})
}

type petResponse struct {
	ID             int64     `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Name           string    `json:"name"`
	Breed          string    `json:"breed"`
	Gender         Gender    `json:"gender"`
	Age            int       `json:"age"`
	Weight         float64   `json:"weight"`
	Comment        string    `json:"comment"`
	Birth          string    `json:"birth"`
	ImageURL       string    `json:"image_url"`
	ImagePublicURL string    `json:"image_public_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	CanEdit        bool      `json:"can_edit"`
}

type editResponse struct {
	PetID          int64     `json:"pet_id"`
	State          EditState `json:"state"`
	Form           Snapshot  `json:"form"`
	HasStagedImage bool      `json:"has_staged_image"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body CreateInput true "Perfil de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid json / reglas de validación"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req CreateInput
		if err := httputil.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), userID, req)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, toPetResponse(p, userID, publicBaseURL))
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Tags pets
// @Produce json
// @Success 200 {array} petResponse
// @Failure 401 {string} string "unauthorized"
// @Router /pets [get]
func listPetsHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByOwner(r.Context(), userID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p, userID, publicBaseURL))
		}
		httputil.WriteJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := petIDParam(w, r)
		if !ok {
			return
		}

		p, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		userID, _ := middleware.UserID(r.Context())
		httputil.WriteJSON(w, http.StatusOK, toPetResponse(p, userID, publicBaseURL))
	}
}

// updatePetHandler godoc
// @Summary Editar perfil de mascota (en un paso)
// @Description Acepta JSON con los campos a cambiar, o multipart/form-data con los mismos campos y un archivo opcional `image`. Si hay imagen se sube primero; si la subida falla no se actualiza la fila.
// @Tags pets
// @Accept json,mpfd
// @Produce json
// @Param petID path int true "ID de la mascota"
// @Success 200 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 502 {string} string "image upload failed"
// @Router /pets/{petID} [patch]
func updatePetHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, ok := petIDParam(w, r)
		if !ok {
			return
		}

		changes, file, err := readEditForm(w, r)
		if err != nil {
			writeFormError(w, err)
			return
		}

		current, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}

		ed := svc.NewEditor(userID)
		if _, err := ed.Begin(current); err != nil {
			writeError(w, err)
			return
		}
		if _, err := ed.Apply(changes); err != nil {
			writeError(w, err)
			return
		}
		if file != nil {
			if err := ed.StageFile(*file); err != nil {
				writeError(w, err)
				return
			}
		}

		updated, err := ed.Submit(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toPetResponse(updated, userID, publicBaseURL))
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Tags pets
// @Param petID path int true "ID de la mascota"
// @Success 204
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, ok := petIDParam(w, r)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), userID, id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func beginEditHandler(edits *EditSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := editParams(w, r)
		if !ok {
			return
		}

		snap, err := edits.Begin(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, editResponse{PetID: id, State: StateEditing, Form: snap})
	}
}

func applyEditHandler(edits *EditSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := editParams(w, r)
		if !ok {
			return
		}

		var ch FieldChanges
		if err := httputil.DecodeJSON(r.Body, &ch); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ed, err := edits.Get(userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		snap, err := ed.Apply(ch)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, editResponse{
			PetID:          id,
			State:          StateEditing,
			Form:           snap,
			HasStagedImage: ed.HasStagedFile(),
		})
	}
}

func stageImageHandler(edits *EditSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := editParams(w, r)
		if !ok {
			return
		}

		if err := parseMultipart(w, r); err != nil {
			writeFormError(w, err)
			return
		}
		file, err := readImage(r.MultipartForm)
		if err != nil {
			writeFormError(w, err)
			return
		}
		if file == nil {
			http.Error(w, "image required", http.StatusBadRequest)
			return
		}

		ed, err := edits.Get(userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := ed.StageFile(*file); err != nil {
			writeError(w, err)
			return
		}
		snap, _ := ed.Draft()
		httputil.WriteJSON(w, http.StatusOK, editResponse{PetID: id, State: StateEditing, Form: snap, HasStagedImage: true})
	}
}

func cancelEditHandler(edits *EditSessions) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := editParams(w, r)
		if !ok {
			return
		}

		orig, err := edits.Cancel(userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, editResponse{PetID: id, State: StateViewing, Form: orig})
	}
}

func submitEditHandler(edits *EditSessions, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, id, ok := editParams(w, r)
		if !ok {
			return
		}

		p, err := edits.Submit(r.Context(), userID, id)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toPetResponse(p, userID, publicBaseURL))
	}
}

func editParams(w http.ResponseWriter, r *http.Request) (string, int64, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", 0, false
	}
	id, ok := petIDParam(w, r)
	if !ok {
		return "", 0, false
	}
	return userID, id, true
}

func petIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "petID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid pet id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// readEditForm lee los cambios desde JSON o multipart/form-data.
func readEditForm(w http.ResponseWriter, r *http.Request) (FieldChanges, *StagedFile, error) {
	var ch FieldChanges

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := httputil.DecodeJSON(r.Body, &ch); err != nil {
			return FieldChanges{}, nil, errors.New("invalid json")
		}
		return ch, nil, nil
	}

	if err := parseMultipart(w, r); err != nil {
		return FieldChanges{}, nil, err
	}
	form := r.MultipartForm

	str := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	ch.Name = str("name")
	ch.Breed = str("breed")
	ch.Comment = str("comment")
	ch.Birth = str("birth")
	if g := str("gender"); g != nil {
		gender := Gender(*g)
		ch.Gender = &gender
	}
	if a := str("age"); a != nil {
		age, err := strconv.Atoi(strings.TrimSpace(*a))
		if err != nil {
			return FieldChanges{}, nil, errors.New("age must be an integer")
		}
		ch.Age = &age
	}
	if wv := str("weight"); wv != nil {
		weight, err := strconv.ParseFloat(strings.TrimSpace(*wv), 64)
		if err != nil {
			return FieldChanges{}, nil, errors.New("weight must be a number")
		}
		ch.Weight = &weight
	}

	file, err := readImage(form)
	if err != nil {
		return FieldChanges{}, nil, err
	}
	return ch, file, nil
}

// parseMultipart lee el form con el body acotado a maxRequestBody.
func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	if r.ContentLength > maxRequestBody {
		return fmt.Errorf("%w: request body too large", blob.ErrTooLarge)
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return fmt.Errorf("%w: request body too large", blob.ErrTooLarge)
		}
		return errors.New("invalid multipart form")
	}
	return nil
}

// writeFormError responde 413 si el body excede el límite y 400 en otro caso.
func writeFormError(w http.ResponseWriter, err error) {
	if errors.Is(err, blob.ErrTooLarge) {
		writeError(w, err)
		return
	}
	http.Error(w, err.Error(), http.StatusBadRequest)
}

// readImage devuelve el archivo "image" del form, o nil si no vino.
func readImage(form *multipart.Form) (*StagedFile, error) {
	if form == nil {
		return nil, nil
	}
	fhs := form.File["image"]
	if len(fhs) == 0 {
		return nil, nil
	}
	fh := fhs[0]
	if fh.Size > MaxImageSize {
		return nil, fmt.Errorf("%w: image larger than %d bytes", blob.ErrTooLarge, MaxImageSize)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errors.New("cannot read image")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxImageSize+1))
	if err != nil {
		return nil, errors.New("cannot read image")
	}

	ct := fh.Header.Get("Content-Type")
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(data)
	}
	return &StagedFile{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyFile):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	case errors.Is(err, ErrNoEditSession), errors.Is(err, ErrNotEditing):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, blob.ErrConflict):
		http.Error(w, "image name already exists", http.StatusConflict)
	case errors.Is(err, blob.ErrTooLarge):
		http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
	case errors.Is(err, blob.ErrRejected):
		http.Error(w, "image type not allowed", http.StatusUnsupportedMediaType)
	case errors.Is(err, blob.ErrUpstream):
		http.Error(w, "image upload failed", http.StatusBadGateway)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toPetResponse(p Pet, viewerID, publicBaseURL string) petResponse {
	return petResponse{
		ID:             p.ID,
		OwnerID:        p.OwnerID,
		Name:           p.Name,
		Breed:          p.Breed,
		Gender:         p.Gender,
		Age:            p.Age,
		Weight:         p.Weight,
		Comment:        p.Comment,
		Birth:          p.Birth,
		ImageURL:       p.ImageURL,
		ImagePublicURL: storageurl.Public(publicBaseURL, p.ImageURL),
		CreatedAt:      p.CreatedAt,
		CanEdit:        viewerID != "" && viewerID == p.OwnerID,
	}
}
