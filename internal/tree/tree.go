// Package tree implements the semester content tree: the in-memory model
// mirrored from the document store, the mutation engine that rewrites a
// semester's classes array, and the optimistic sync controller that keeps
// the two sides consistent.
package tree

import (
	"errors"
	"sort"
	"sync"

	"github.com/evnul000/StudyShelf/internal/models"
)

var (
	// ErrEmptyName rejects semesters, classes and items with a blank name.
	ErrEmptyName = errors.New("tree: name must not be empty")

	// ErrNotFound is returned when a semester, class, section or item id
	// resolves to nothing. Distinct from an empty section.
	ErrNotFound = errors.New("tree: not found")

	// ErrCrossSemesterMove rejects item moves between semesters; the tree
	// only supports moves within one semester document.
	ErrCrossSemesterMove = errors.New("tree: cross-semester moves are not supported")
)

// Model is the in-memory mirror of semester documents, keyed by id.
type Model struct {
	mu   sync.RWMutex
	byID map[string]models.Semester
}

func NewModel() *Model {
	return &Model{byID: make(map[string]models.Semester)}
}

// ReplaceUser swaps out everything held for one user with a fresh load.
func (m *Model) ReplaceUser(userID string, semesters []models.Semester) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, sem := range m.byID {
		if sem.UserID == userID {
			delete(m.byID, id)
		}
	}
	for _, sem := range semesters {
		m.byID[sem.ID.Hex()] = cloneSemester(sem)
	}
}

func (m *Model) Get(id string) (models.Semester, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sem, ok := m.byID[id]
	if !ok {
		return models.Semester{}, false
	}
	return cloneSemester(sem), true
}

func (m *Model) Put(sem models.Semester) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[sem.ID.Hex()] = cloneSemester(sem)
}

func (m *Model) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, id)
}

// ListByUser returns the user's semesters sorted by name descending, the
// order the semester view renders them in.
func (m *Model) ListByUser(userID string) []models.Semester {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []models.Semester{}
	for _, sem := range m.byID {
		if sem.UserID == userID {
			out = append(out, cloneSemester(sem))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name > out[j].Name })
	return out
}

// GetClass looks up one class inside a semester.
func (m *Model) GetClass(semesterID, classID string) (models.Class, bool) {
	sem, ok := m.Get(semesterID)
	if !ok {
		return models.Class{}, false
	}
	for _, cls := range sem.Classes {
		if cls.ID == classID {
			return cls, true
		}
	}
	return models.Class{}, false
}
