package diaries

import (
	"context"
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
	"pet-diary/internal/platform/loadstate"
	"pet-diary/internal/platform/storageurl"
	"pet-diary/internal/ports/blob"

	"github.com/go-chi/chi/v5"
)

// MaxImageSize limita el tamaño de la imagen adjunta.
const MaxImageSize = 5 << 20

const maxRequestBody = MaxImageSize + 1<<20

func RegisterRoutes(r chi.Router, svc *Service, publicBaseURL string) {
	r.Route("/diaries", func(dr chi.Router) {
		dr.Post("/", createDiaryHandler(svc, publicBaseURL))
		dr.Get("/{diaryID}", getDiaryHandler(svc, publicBaseURL))
		dr.Patch("/{diaryID}", updateDiaryHandler(svc, publicBaseURL))
	})

	r.Get("/me/diaries", listMyDiariesHandler(svc, publicBaseURL))
	r.Get("/me/diaries/calendar", calendarHandler(svc, publicBaseURL))
}

// diaryResponse es una entrada del diario tal como la ve el usuario actual.
type diaryResponse struct {
	ID             int64     `json:"id"`
	AuthorID       string    `json:"author_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"image_url"`
	ImagePublicURL string    `json:"image_public_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	IsPublic       bool      `json:"is_public"`
	CanEdit        bool      `json:"can_edit"`
}

type calendarDayResponse struct {
	Date    string          `json:"date"`
	Count   int             `json:"count"`
	Entries []diaryResponse `json:"entries"`
}

type calendarResponse struct {
	Month string                `json:"month"`
	Days  []calendarDayResponse `json:"days"`
}

// getDiaryHandler godoc
// @Summary Detalle de una entrada del diario
// @Description Devuelve el resultado de la carga con `status` (success, not_found, error). `can_edit` sólo es true para el autor. Las entradas privadas sólo las ve su autor.
// @Tags diaries
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param diaryID path int true "ID de la entrada"
// @Success 200 {object} loadstate.Result[diaryResponse]
// @Failure 404 {object} loadstate.Result[diaryResponse]
// @Router /diaries/{diaryID} [get]
func getDiaryHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := diaryIDParam(w, r)
		if !ok {
			return
		}
		viewerID, _ := middleware.UserID(r.Context())

		res := loadstate.Load(r.Context(), func(ctx context.Context) (diaryResponse, error) {
			v, err := svc.Detail(ctx, id, viewerID)
			if err != nil {
				return diaryResponse{}, err
			}
			return toDiaryResponse(v.Entry, v.CanEdit, publicBaseURL), nil
		}, func(err error) bool { return errors.Is(err, ErrNotFound) })

		status := http.StatusOK
		switch res.Status {
		case loadstate.StatusNotFound:
			status = http.StatusNotFound
		case loadstate.StatusError:
			middleware.LoggerFrom(r.Context()).Error("diary load failed", map[string]any{"diary_id": id, "error": res.Error})
			res.Error = "internal error"
			status = http.StatusInternalServerError
		}
		httputil.WriteJSON(w, status, res)
	}
}

// createDiaryHandler godoc
// @Summary Escribir una entrada del diario
// @Description Acepta JSON (`title`, `content`, `is_public`) o multipart/form-data con los mismos campos y un archivo opcional `image`.
// @Tags diaries
// @Accept json,mpfd
// @Produce json
// @Success 201 {object} diaryResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /diaries [post]
func createDiaryHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		in, img, err := readDiaryForm(w, r)
		if err != nil {
			writeFormError(w, err)
			return
		}

		create := CreateInput{IsPublic: in.IsPublic != nil && *in.IsPublic}
		if in.Title != nil {
			create.Title = *in.Title
		}
		if in.Content != nil {
			create.Content = *in.Content
		}

		e, err := svc.Create(r.Context(), userID, create, img)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusCreated, toDiaryResponse(e, true, publicBaseURL))
	}
}

// updateDiaryHandler godoc
// @Summary Editar una entrada propia
// @Description Sólo el autor puede editar. El autor no se puede cambiar. Si viene imagen se sube primero; si la subida falla la entrada queda igual.
// @Tags diaries
// @Accept json,mpfd
// @Produce json
// @Param diaryID path int true "ID de la entrada"
// @Success 200 {object} diaryResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "diary not found"
// @Router /diaries/{diaryID} [patch]
func updateDiaryHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		id, ok := diaryIDParam(w, r)
		if !ok {
			return
		}

		in, img, err := readDiaryForm(w, r)
		if err != nil {
			writeFormError(w, err)
			return
		}

		e, err := svc.Update(r.Context(), userID, id, in, img)
		if err != nil {
			writeError(w, err)
			return
		}
		httputil.WriteJSON(w, http.StatusOK, toDiaryResponse(e, true, publicBaseURL))
	}
}

// listMyDiariesHandler godoc
// @Summary Listar mis entradas
// @Tags diaries
// @Produce json
// @Param limit query int false "Máximo de entradas (1-200)"
// @Param from query string false "created_at mínimo (RFC3339)"
// @Param to query string false "created_at máximo, exclusivo (RFC3339)"
// @Param q query string false "Texto libre en título/contenido"
// @Success 200 {array} diaryResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 401 {string} string "unauthorized"
// @Router /me/diaries [get]
func listMyDiariesHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByAuthor(r.Context(), userID, filter)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]diaryResponse, 0, len(items))
		for _, e := range items {
			out = append(out, toDiaryResponse(e, true, publicBaseURL))
		}
		httputil.WriteJSON(w, http.StatusOK, out)
	}
}

// calendarHandler godoc
// @Summary Calendario mensual de mis entradas
// @Tags diaries
// @Produce json
// @Param month query string false "Mes YYYY-MM (por defecto el actual, UTC)"
// @Success 200 {object} calendarResponse
// @Failure 400 {string} string "month must be YYYY-MM"
// @Failure 401 {string} string "unauthorized"
// @Router /me/diaries/calendar [get]
func calendarHandler(svc *Service, publicBaseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.UserID(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		month, err := ParseMonth(r.URL.Query().Get("month"), svc.now(), time.UTC)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		cal, err := svc.Calendar(r.Context(), userID, month)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := calendarResponse{Month: cal.Month, Days: make([]calendarDayResponse, 0, len(cal.Days))}
		for _, d := range cal.Days {
			day := calendarDayResponse{Date: d.Date, Count: len(d.Entries), Entries: make([]diaryResponse, 0, len(d.Entries))}
			for _, e := range d.Entries {
				day.Entries = append(day.Entries, toDiaryResponse(e, true, publicBaseURL))
			}
			out.Days = append(out.Days, day)
		}
		httputil.WriteJSON(w, http.StatusOK, out)
	}
}

func diaryIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "diaryID"), 10, 64)
	if err != nil || id <= 0 {
		http.Error(w, "invalid diary id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	limit := 50
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	filter := ListFilter{Limit: limit}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, errors.New("to must be RFC3339")
		}
		filter.To = &t
	}
	filter.Query = strings.TrimSpace(q.Get("q"))

	return filter, nil
}

// readDiaryForm lee los campos desde JSON o multipart/form-data.
func readDiaryForm(w http.ResponseWriter, r *http.Request) (UpdateInput, *Image, error) {
	var in UpdateInput

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := httputil.DecodeJSON(r.Body, &in); err != nil {
			return UpdateInput{}, nil, errors.New("invalid json")
		}
		return in, nil, nil
	}

	if err := parseMultipart(w, r); err != nil {
		return UpdateInput{}, nil, err
	}
	form := r.MultipartForm

	str := func(key string) *string {
		if vs, ok := form.Value[key]; ok && len(vs) > 0 {
			v := vs[0]
			return &v
		}
		return nil
	}

	in.Title = str("title")
	in.Content = str("content")
	if v := str("is_public"); v != nil {
		b, err := strconv.ParseBool(strings.TrimSpace(*v))
		if err != nil {
			return UpdateInput{}, nil, errors.New("is_public must be a boolean")
		}
		in.IsPublic = &b
	}

	img, err := readImage(form)
	if err != nil {
		return UpdateInput{}, nil, err
	}
	return in, img, nil
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

func readImage(form *multipart.Form) (*Image, error) {
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
	return &Image{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "diary not found", http.StatusNotFound)
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

func toDiaryResponse(e Entry, canEdit bool, publicBaseURL string) diaryResponse {
	return diaryResponse{
		ID:             e.ID,
		AuthorID:       e.AuthorID,
		Title:          e.Title,
		Content:        e.Content,
		ImageURL:       e.ImageURL,
		ImagePublicURL: storageurl.Public(publicBaseURL, e.ImageURL),
		CreatedAt:      e.CreatedAt,
		IsPublic:       e.IsPublic,
		CanEdit:        canEdit,
	}
}
