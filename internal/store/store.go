// Package store holds the document-store contract the content tree is
// persisted through, plus the MongoDB implementation and an in-memory
// implementation used by tests.
package store

import (
	"context"
	"errors"

	"github.com/evnul000/StudyShelf/internal/models"
)

var (
	// ErrNotFound is returned when a semester id matches no document.
	ErrNotFound = errors.New("store: document not found")

	// ErrVersionConflict is returned when a version-checked write lost the
	// race to a concurrent mutation. Callers refetch and retry.
	ErrVersionConflict = errors.New("store: version conflict")
)

// Semesters is the persistence contract for semester documents. The classes
// array is always written whole; there are no field-path updates into it.
// Updates carry the version the caller read so a stale read-modify-write
// fails with ErrVersionConflict instead of clobbering a concurrent change.
type Semesters interface {
	ListByUser(ctx context.Context, userID string) ([]models.Semester, error)
	Get(ctx context.Context, id string) (*models.Semester, error)
	Insert(ctx context.Context, s *models.Semester) error
	UpdateClasses(ctx context.Context, id string, classes []models.Class, version int64) error
	UpdateName(ctx context.Context, id, name string, version int64) error
	Delete(ctx context.Context, id string) error
}
