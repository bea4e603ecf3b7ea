package postgres

import (
	"context"
	"fmt"
	"strings"

	"pet-diary/internal/domain/pets"
)

const petColumns = `id, "ownerId", name, breed, gender, age, weight, comment,
	COALESCE(birth, ''), COALESCE("imageUrl", ''), "createdAt"`

type PetsRepo struct{ db *DB }

func NewPetsRepo(db *DB) *PetsRepo { return &PetsRepo{db: db} }

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) (pets.Pet, error) {
	q := `
INSERT INTO pets ("ownerId", name, breed, gender, age, weight, comment, birth, "imageUrl", "createdAt")
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), NULLIF($9, ''), $10)
RETURNING ` + petColumns
	row := r.db.Pool.QueryRow(ctx, q,
		p.OwnerID, p.Name, p.Breed, string(p.Gender), p.Age, p.Weight, p.Comment, p.Birth, p.ImageURL, p.CreatedAt)
	return scanPet(row)
}

func (r *PetsRepo) GetByID(ctx context.Context, id int64) (pets.Pet, error) {
	q := `SELECT ` + petColumns + ` FROM pets WHERE id = $1`
	p, err := scanPet(r.db.Pool.QueryRow(ctx, q, id))
	if isNoRows(err) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) ListByOwner(ctx context.Context, ownerID string) ([]pets.Pet, error) {
	q := `SELECT ` + petColumns + ` FROM pets WHERE "ownerId" = $1 ORDER BY id ASC`
	rows, err := r.db.Pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update arma el SET sólo con los campos presentes en el patch.
func (r *PetsRepo) Update(ctx context.Context, id int64, patch pets.Patch) (pets.Pet, error) {
	set := make([]string, 0, 8)
	args := make([]any, 0, 9)
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Breed != nil {
		add("breed", *patch.Breed)
	}
	if patch.Gender != nil {
		add("gender", string(*patch.Gender))
	}
	if patch.Age != nil {
		add("age", *patch.Age)
	}
	if patch.Weight != nil {
		add("weight", *patch.Weight)
	}
	if patch.Comment != nil {
		add("comment", *patch.Comment)
	}
	if patch.Birth != nil {
		add("birth", nullIfEmpty(*patch.Birth))
	}
	if patch.ImageURL != nil {
		add(`"imageUrl"`, nullIfEmpty(*patch.ImageURL))
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE pets SET %s WHERE id = $%d RETURNING %s`, strings.Join(set, ", "), len(args), petColumns)

	p, err := scanPet(r.db.Pool.QueryRow(ctx, q, args...))
	if isNoRows(err) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pets.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var p pets.Pet
	var gender string
	if err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.Breed,
		&gender,
		&p.Age,
		&p.Weight,
		&p.Comment,
		&p.Birth,
		&p.ImageURL,
		&p.CreatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Gender = pets.Gender(gender)
	return p, nil
}

// nullIfEmpty guarda "" como NULL (columnas opcionales).
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
