package pets

import "time"

// Gender es la etiqueta de sexo que muestra el perfil.
// @Enum male, female
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Pet representa el perfil de una mascota de un usuario.
type Pet struct {
	ID      int64
	OwnerID string

	Name    string
	Breed   string
	Gender  Gender
	Age     int     // años, >= 0
	Weight  float64 // kg, > 0
	Comment string  // presentación de una línea
	Birth   string  // YYYY-MM-DD, puede venir vacío

	// Path en storage ("pets/<archivo>"), no la URL pública.
	ImageURL string

	CreatedAt time.Time
}

// Patch es una escritura parcial: nil = no tocar.
type Patch struct {
	Name     *string
	Breed    *string
	Gender   *Gender
	Age      *int
	Weight   *float64
	Comment  *string
	Birth    *string
	ImageURL *string
}

func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Breed == nil && p.Gender == nil && p.Age == nil &&
		p.Weight == nil && p.Comment == nil && p.Birth == nil && p.ImageURL == nil
}

// ApplyTo aplica el patch sobre pet (usado por repos que no hablan SQL).
func (p Patch) ApplyTo(pet *Pet) {
	if p.Name != nil {
		pet.Name = *p.Name
	}
	if p.Breed != nil {
		pet.Breed = *p.Breed
	}
	if p.Gender != nil {
		pet.Gender = *p.Gender
	}
	if p.Age != nil {
		pet.Age = *p.Age
	}
	if p.Weight != nil {
		pet.Weight = *p.Weight
	}
	if p.Comment != nil {
		pet.Comment = *p.Comment
	}
	if p.Birth != nil {
		pet.Birth = *p.Birth
	}
	if p.ImageURL != nil {
		pet.ImageURL = *p.ImageURL
	}
}
