package supabase

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"pet-diary/internal/domain/pets"
)

const petsTable = "pets"

// petRow es la fila tal como la expone la API (columnas camelCase).
type petRow struct {
	ID        int64     `json:"id,omitempty"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Breed     string    `json:"breed"`
	Gender    string    `json:"gender"`
	Age       int       `json:"age"`
	Weight    float64   `json:"weight"`
	Comment   string    `json:"comment"`
	Birth     *string   `json:"birth"`
	ImageURL  *string   `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r petRow) toPet() pets.Pet {
	return pets.Pet{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Name:      r.Name,
		Breed:     r.Breed,
		Gender:    pets.Gender(r.Gender),
		Age:       r.Age,
		Weight:    r.Weight,
		Comment:   r.Comment,
		Birth:     deref(r.Birth),
		ImageURL:  deref(r.ImageURL),
		CreatedAt: r.CreatedAt,
	}
}

type PetsRepo struct{ c *Client }

func NewPetsRepo(c *Client) *PetsRepo { return &PetsRepo{c: c} }

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	in := petRow{
		OwnerID:   p.OwnerID,
		Name:      p.Name,
		Breed:     p.Breed,
		Gender:    string(p.Gender),
		Age:       p.Age,
		Weight:    p.Weight,
		Comment:   p.Comment,
		Birth:     nullable(p.Birth),
		ImageURL:  nullable(p.ImageURL),
		CreatedAt: p.CreatedAt,
	}
	var out []petRow
	err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodPost, petsTable, nil, in, &out))
	if err != nil {
		return pets.Pet{}, err
	}
	if len(out) == 0 {
		return pets.Pet{}, errEmptyRepresentation
	}
	return out[0].toPet(), nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	var out []petRow
	q := url.Values{"select": {"*"}, "id": {eqID(id)}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodGet, petsTable, q, nil, &out)); err != nil {
		return pets.Pet{}, err
	}
	if len(out) == 0 {
		return pets.Pet{}, pets.ErrNotFound
	}
	return out[0].toPet(), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	var out []petRow
	q := url.Values{"select": {"*"}, "ownerId": {eq(ownerID)}, "order": {"id.asc"}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodGet, petsTable, q, nil, &out)); err != nil {
		return nil, err
	}
	items := make([]pets.Pet, 0, len(out))
	for _, row := range out {
		items = append(items, row.toPet())
	}
	return items, nil
}

func (r *PetsRepo) Update(ctx context.Context, id int64, patch pets.Patch) (pets.Pet, error) {
	body := map[string]any{}
	if patch.Name != nil {
		body["name"] = *patch.Name
	}
	if patch.Breed != nil {
		body["breed"] = *patch.Breed
	}
	if patch.Gender != nil {
		body["gender"] = string(*patch.Gender)
	}
	if patch.Age != nil {
		body["age"] = *patch.Age
	}
	if patch.Weight != nil {
		body["weight"] = *patch.Weight
	}
	if patch.Comment != nil {
		body["comment"] = *patch.Comment
	}
	if patch.Birth != nil {
		body["birth"] = nullable(*patch.Birth)
	}
	if patch.ImageURL != nil {
		body["imageUrl"] = nullable(*patch.ImageURL)
	}
	if len(body) == 0 {
		return r.GetByID(ctx, id)
	}

	var out []petRow
	q := url.Values{"id": {eqID(id)}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodPatch, petsTable, q, body, &out)); err != nil {
		return pets.Pet{}, err
	}
	if len(out) == 0 {
		return pets.Pet{}, pets.ErrNotFound
	}
	return out[0].toPet(), nil
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	var out []petRow
	q := url.Values{"id": {eqID(id)}}
	if err := r.c.http.Do(ctx, httpRequest(ctx, r.c, http.MethodDelete, petsTable, q, nil, &out)); err != nil {
		return err
	}
	if len(out) == 0 {
		return pets.ErrNotFound
	}
	return nil
}
