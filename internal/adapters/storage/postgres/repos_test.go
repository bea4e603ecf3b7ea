package postgres

import (
	"context"
	"testing"
	"time"

	"pet-diary/internal/domain/diaries"
	"pet-diary/internal/domain/pets"
	"pet-diary/internal/ports/profiles"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

var petCols = []string{"id", "ownerId", "name", "breed", "gender", "age", "weight", "comment", "birth", "imageUrl", "createdAt"}

var created = time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

func mochiRow() *pgxmock.Rows {
	return pgxmock.NewRows(petCols).
		AddRow(int64(7), "u1", "Mochi", "siamés", "female", 2, 4.2, "", "2024-03-01", "pets/old.png", created)
}

func TestPetsRepo_GetByID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPetsRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, "ownerId", name, .* FROM pets WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(mochiRow())
	p, err := r.GetByID(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, "Mochi", p.Name)
	require.Equal(t, pets.GenderFemale, p.Gender)
	require.Equal(t, "pets/old.png", p.ImageURL)

	mock.ExpectQuery(`FROM pets WHERE id = \$1`).
		WithArgs(int64(8)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByID(ctx, 8)
	require.ErrorIs(t, err, pets.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_ListByOwner(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPetsRepo(db)

	mock.ExpectQuery(`FROM pets WHERE "ownerId" = \$1 ORDER BY id ASC`).
		WithArgs("u1").
		WillReturnRows(mochiRow().
			AddRow(int64(9), "u1", "Luna", "", "male", 1, 3.0, "", "", "", created))

	items, err := r.ListByOwner(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, int64(9), items[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_Create(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPetsRepo(db)

	in := pets.Pet{OwnerID: "u1", Name: "Mochi", Breed: "siamés", Gender: pets.GenderFemale, Age: 2, Weight: 4.2, Birth: "2024-03-01", ImageURL: "pets/old.png", CreatedAt: created}
	mock.ExpectQuery(`INSERT INTO pets \("ownerId", name, breed, gender, age, weight, comment, birth, "imageUrl", "createdAt"\)`).
		WithArgs("u1", "Mochi", "siamés", "female", 2, 4.2, "", "2024-03-01", "pets/old.png", created).
		WillReturnRows(mochiRow())

	p, err := r.Create(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, int64(7), p.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_Update_OnlyPatchedColumns(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPetsRepo(db)
	ctx := context.Background()

	name := "Mochi2"
	img := "pets/new.png"
	mock.ExpectQuery(`UPDATE pets SET name = \$1, "imageUrl" = \$2 WHERE id = \$3 RETURNING`).
		WithArgs("Mochi2", pgxmock.AnyArg(), int64(7)).
		WillReturnRows(pgxmock.NewRows(petCols).
			AddRow(int64(7), "u1", "Mochi2", "siamés", "female", 2, 4.2, "", "2024-03-01", "pets/new.png", created))

	p, err := r.Update(ctx, 7, pets.Patch{Name: &name, ImageURL: &img})
	require.NoError(t, err)
	require.Equal(t, "Mochi2", p.Name)
	require.Equal(t, "pets/new.png", p.ImageURL)

	mock.ExpectQuery(`UPDATE pets SET name = \$1 WHERE id = \$2`).
		WithArgs("Mochi2", int64(99)).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.Update(ctx, 99, pets.Patch{Name: &name})
	require.ErrorIs(t, err, pets.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPetsRepo_Delete(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewPetsRepo(db)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM pets WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, 7))

	mock.ExpectExec(`DELETE FROM pets WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, 7), pets.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

var diaryCols = []string{"id", "authorId", "title", "content", "imageUrl", "createdAt", "isPublic"}

func TestDiariesRepo_ListByAuthor_Filter(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDiariesRepo(db)

	from := created
	to := created.AddDate(0, 1, 0)
	mock.ExpectQuery(`FROM diaries WHERE "authorId" = \$1 AND "createdAt" >= \$2 AND "createdAt" < \$3 AND \(title ILIKE \$4 OR content ILIKE \$4\) ORDER BY "createdAt" DESC, id DESC LIMIT \$5`).
		WithArgs("u1", from, to, "%paseo%", 10).
		WillReturnRows(pgxmock.NewRows(diaryCols).
			AddRow(int64(1), "u1", "paseo", "parque", "", created, true))

	items, err := r.ListByAuthor(context.Background(), "u1", diaries.ListFilter{From: &from, To: &to, Query: "paseo", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.True(t, items[0].IsPublic)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiariesRepo_Update_NeverTouchesAuthor(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDiariesRepo(db)

	title := "nuevo"
	public := false
	mock.ExpectQuery(`UPDATE diaries SET title = \$1, "isPublic" = \$2 WHERE id = \$3`).
		WithArgs("nuevo", false, int64(1)).
		WillReturnRows(pgxmock.NewRows(diaryCols).
			AddRow(int64(1), "u1", "nuevo", "parque", "", created, false))

	e, err := r.Update(context.Background(), 1, diaries.Patch{Title: &title, IsPublic: &public})
	require.NoError(t, err)
	require.Equal(t, "u1", e.AuthorID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDiariesRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewDiariesRepo(db)

	mock.ExpectQuery(`FROM diaries WHERE id = \$1`).
		WithArgs(int64(5)).
		WillReturnError(pgx.ErrNoRows)
	_, err := r.GetByID(context.Background(), 5)
	require.ErrorIs(t, err, diaries.ErrNotFound)
}

func TestProfilesRepo_GetByUserID(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewProfilesRepo(db)
	ctx := context.Background()

	mock.ExpectQuery(`FROM profiles WHERE id = \$1`).
		WithArgs("u1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "nickname", "avatarUrl"}).AddRow("u1", "ana", ""))
	p, err := r.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "ana", p.Nickname)

	mock.ExpectQuery(`FROM profiles WHERE id = \$1`).
		WithArgs("u2").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.GetByUserID(ctx, "u2")
	require.ErrorIs(t, err, profiles.ErrNotFound)
}
