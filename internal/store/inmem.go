package store

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/evnul000/StudyShelf/internal/models"
)

// InMem is a memory-backed Semesters implementation with the same version
// semantics as the Mongo one. Used by tests and local development.
type InMem struct {
	mu        sync.RWMutex
	semesters map[string]models.Semester

	// FailWrites makes every update fail with the given error, for
	// exercising the sync controller's rollback path.
	FailWrites error
}

func NewInMem() *InMem {
	return &InMem{semesters: make(map[string]models.Semester)}
}

func (s *InMem) ListByUser(_ context.Context, userID string) ([]models.Semester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Semester
	for _, sem := range s.semesters {
		if sem.UserID == userID {
			out = append(out, copySemester(sem))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *InMem) Get(_ context.Context, id string) (*models.Semester, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sem, ok := s.semesters[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := copySemester(sem)
	return &cp, nil
}

func (s *InMem) Insert(_ context.Context, sem *models.Semester) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sem.ID.IsZero() {
		sem.ID = primitive.NewObjectID()
	}
	s.semesters[sem.ID.Hex()] = copySemester(*sem)
	return nil
}

func (s *InMem) UpdateClasses(_ context.Context, id string, classes []models.Class, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	sem, ok := s.semesters[id]
	if !ok {
		return ErrNotFound
	}
	if sem.Version != version {
		return ErrVersionConflict
	}
	sem.Classes = copyClasses(classes)
	sem.Version = version + 1
	s.semesters[id] = sem
	return nil
}

func (s *InMem) UpdateName(_ context.Context, id, name string, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FailWrites != nil {
		return s.FailWrites
	}
	sem, ok := s.semesters[id]
	if !ok {
		return ErrNotFound
	}
	if sem.Version != version {
		return ErrVersionConflict
	}
	sem.Name = name
	sem.Version = version + 1
	s.semesters[id] = sem
	return nil
}

func (s *InMem) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.semesters[id]; !ok {
		return ErrNotFound
	}
	delete(s.semesters, id)
	return nil
}

func copySemester(sem models.Semester) models.Semester {
	sem.Classes = copyClasses(sem.Classes)
	return sem
}

func copyClasses(classes []models.Class) []models.Class {
	out := make([]models.Class, len(classes))
	for i, cls := range classes {
		out[i] = cls
		out[i].Sections = make(map[string][]models.ContentItem, len(cls.Sections))
		for name, items := range cls.Sections {
			out[i].Sections[name] = append([]models.ContentItem(nil), items...)
		}
	}
	return out
}
