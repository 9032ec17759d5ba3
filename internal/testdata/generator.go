package testdata

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/jask/practicum/internal/center"
	"github.com/jask/practicum/internal/database/repository"
)

var (
	prefixes = []string{"CEIP", "IES", "CEIPSO", "CC", "CEE"}
	names    = []string{"San Ildefonso", "Jaime Vera", "Antonio Machado", "Clara Campoamor", "Gloria Fuertes", "Miguel de Unamuno", "Rosalía de Castro", "Ramiro de Maeztu", "Emilia Pardo Bazán", "Federico García Lorca"}
	zones    = []string{"Centro", "Chamberí", "Hortaleza", "Tetuán", "Usera", "Vallecas", "Latina", "Carabanchel"}
	statuses = []string{"Disponible", "Disponible", "Disponible", "Completo"}
)

var namespace = uuid.MustParse("a7c4d1f2-5e8b-4c3a-9f61-2d0b8e7a6c15")

// Centers returns n synthetic centers. The same seed always yields the same
// records, with unique ids and codes.
func Centers(n int, seed int64) []center.Center {
	rng := rand.New(rand.NewSource(seed))
	out := make([]center.Center, n)
	for i := range out {
		code := fmt.Sprintf("28%06d", 10000+i*7)
		status := statuses[rng.Intn(len(statuses))]
		capacity := rng.Intn(6)
		if status == "Completo" {
			capacity = 0
		}
		out[i] = center.Center{
			ID:       uuid.NewSHA1(namespace, []byte(code)).String(),
			Code:     code,
			Name:     fmt.Sprintf("%s %s", prefixes[rng.Intn(len(prefixes))], names[rng.Intn(len(names))]),
			Zone:     zones[rng.Intn(len(zones))],
			Status:   status,
			Capacity: capacity,
		}
	}
	return out
}

// Dataset wraps Centers in a dataset.
func Dataset(n int, seed int64) (*center.Dataset, error) {
	return center.NewDataset(Centers(n, seed))
}

// Seed writes n synthetic centers into a catalog.
func Seed(ctx context.Context, repo *repository.CenterRepo, n int, seed int64) error {
	for i, c := range Centers(n, seed) {
		if err := repo.Upsert(ctx, repository.FromCenter(c, i)); err != nil {
			return err
		}
	}
	return nil
}
