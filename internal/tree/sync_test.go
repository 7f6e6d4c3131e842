package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/store"
)

func TestLoadSortsByNameDescending(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	for _, name := range []string{"Fall 2024", "Spring 2025", "Fall 2025"} {
		_, err := c.AddSemester(ctx, testUser, name, "#3b82f6")
		require.NoError(t, err)
	}

	semesters, err := c.Load(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, semesters, 3)
	require.Equal(t, "Spring 2025", semesters[0].Name)
	require.Equal(t, "Fall 2025", semesters[1].Name)
	require.Equal(t, "Fall 2024", semesters[2].Name)
}

func TestLoadScopedToUser(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()

	_, err := c.AddSemester(ctx, testUser, "Fall 2025", "#3b82f6")
	require.NoError(t, err)
	_, err = c.AddSemester(ctx, "someone-else", "Fall 2025", "#3b82f6")
	require.NoError(t, err)

	semesters, err := c.Load(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, semesters, 1)
	require.Equal(t, testUser, semesters[0].UserID)
}

func TestWriteFailureRollsBackLocalState(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, _, _ := seedSemester(t, c)

	before, ok := c.Model().Get(semID)
	require.True(t, ok)

	boom := errors.New("remote write failed")
	st.FailWrites = boom

	_, err := c.AddClass(ctx, semID, "GHOST", "#000000")
	require.ErrorIs(t, err, boom)

	after, ok := c.Model().Get(semID)
	require.True(t, ok)
	require.Equal(t, before.Version, after.Version)
	require.Equal(t, before.Classes, after.Classes, "optimistic change must be rolled back")
}

// A stale local mirror loses the version race, refetches and reapplies, so
// both the concurrent change and ours survive.
func TestVersionConflictRetriesOnFreshDocument(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, _, _ := seedSemester(t, c)

	// concurrent writer (another tab) adds a class behind our back
	remote, err := st.Get(ctx, semID)
	require.NoError(t, err)
	concurrent := append(cloneClasses(remote.Classes), models.Class{
		ID:       "concurrent",
		Name:     "HIST210",
		Sections: map[string][]models.ContentItem{},
	})
	require.NoError(t, st.UpdateClasses(ctx, semID, concurrent, remote.Version))

	// our mirror is now stale; the mutation must still land
	cls, err := c.AddClass(ctx, semID, "CHEM101", "#06b6d4")
	require.NoError(t, err)

	final, err := st.Get(ctx, semID)
	require.NoError(t, err)
	require.Len(t, final.Classes, 3)

	ids := map[string]bool{}
	for _, cl := range final.Classes {
		ids[cl.ID] = true
	}
	require.True(t, ids["concurrent"], "concurrent change clobbered")
	require.True(t, ids[cls.ID], "retried change lost")
}

func TestSemesterFallsBackToStore(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, _, _ := seedSemester(t, c)

	// fresh controller with an empty mirror over the same store
	c2 := NewController(st, nil, nil)
	sem, err := c2.Semester(ctx, semID)
	require.NoError(t, err)
	require.Equal(t, "Fall 2025", sem.Name)

	_, err = c2.Semester(ctx, "64b000000000000000000000")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteSemesterRemovesEverywhere(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, _, _ := seedSemester(t, c)

	require.NoError(t, c.DeleteSemester(ctx, semID))

	_, ok := c.Model().Get(semID)
	require.False(t, ok)
	_, err := st.Get(ctx, semID)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.ErrorIs(t, c.DeleteSemester(ctx, semID), store.ErrNotFound)
}

// AddExam creates the exams section and the exam item in one write; the
// store version moves by exactly one.
func TestAddExamIsSingleDocumentUpdate(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, classID, _ := seedSemester(t, c)

	before, err := st.Get(ctx, semID)
	require.NoError(t, err)

	item, err := c.AddExam(ctx, semID, classID, models.Exam{
		Title:     "Midterm",
		Questions: []models.Question{{Text: "2+2?", Type: models.QuestionMultiple, Options: []string{"3", "4"}, CorrectAnswer: 1}},
	})
	require.NoError(t, err)
	require.NotNil(t, item.Exam)

	after, err := st.Get(ctx, semID)
	require.NoError(t, err)
	require.Equal(t, before.Version+1, after.Version)

	cls, ok := c.Model().GetClass(semID, classID)
	require.True(t, ok)
	require.Len(t, cls.Sections[models.SectionExams], 1)
	require.Equal(t, "Midterm", cls.Sections[models.SectionExams][0].Name)
}

// A failed exam write must not persist an empty exams section.
func TestAddExamWriteFailureLeavesNoSection(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, classID, _ := seedSemester(t, c)

	boom := errors.New("remote write failed")
	st.FailWrites = boom

	_, err := c.AddExam(ctx, semID, classID, models.Exam{
		Title:     "Midterm",
		Questions: []models.Question{{Text: "2+2?", Type: models.QuestionShort}},
	})
	require.ErrorIs(t, err, boom)

	cls, ok := c.Model().GetClass(semID, classID)
	require.True(t, ok)
	_, exists := cls.Sections[models.SectionExams]
	require.False(t, exists, "rolled-back write must not leave an empty section")

	st.FailWrites = nil
	remote, err := st.Get(ctx, semID)
	require.NoError(t, err)
	for _, rc := range remote.Classes {
		_, exists := rc.Sections[models.SectionExams]
		require.False(t, exists)
	}
}

// conflictedStore loses every version-checked write, as if another writer
// always gets there first.
type conflictedStore struct {
	*store.InMem
}

func (s *conflictedStore) UpdateClasses(context.Context, string, []models.Class, int64) error {
	return store.ErrVersionConflict
}

func TestRetriesExhaustedSurfaceConflict(t *testing.T) {
	st := &conflictedStore{InMem: store.NewInMem()}
	c := NewController(st, nil, nil)
	ctx := context.Background()

	sem, err := c.AddSemester(ctx, testUser, "Fall 2025", "#3b82f6")
	require.NoError(t, err)
	semID := sem.ID.Hex()

	_, err = c.AddClass(ctx, semID, "CS101", "#10b981")
	require.ErrorIs(t, err, store.ErrVersionConflict)

	// the model ends at the last refetched document, not the unwritable
	// optimistic state
	local, ok := c.Model().Get(semID)
	require.True(t, ok)
	remote, err := st.Get(ctx, semID)
	require.NoError(t, err)
	require.Equal(t, remote.Version, local.Version)
	require.Equal(t, remote.Classes, local.Classes)
	require.Empty(t, local.Classes)
}

type recordingFiles struct {
	deleted []string
	fail    error
}

func (f *recordingFiles) DeleteByURL(_ context.Context, url string) error {
	if f.fail != nil {
		return f.fail
	}
	f.deleted = append(f.deleted, url)
	return nil
}

func TestDeleteItemDeletesBackingFile(t *testing.T) {
	files := &recordingFiles{}
	st := store.NewInMem()
	c := NewController(st, files, nil)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	ref := SectionRef{ClassID: classID, Section: models.SectionNotes}
	require.NoError(t, c.DeleteItem(ctx, semID, ref, itemID))
	require.Equal(t, []string{"b2://studyshelf/pdfs/u/1_lecture1.pdf"}, files.deleted)
}

// A failed file delete leaves the file orphaned but the tree mutation
// stands.
func TestDeleteItemFileFailureIsBestEffort(t *testing.T) {
	files := &recordingFiles{fail: errors.New("bucket unavailable")}
	st := store.NewInMem()
	c := NewController(st, files, nil)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	ref := SectionRef{ClassID: classID, Section: models.SectionNotes}
	require.NoError(t, c.DeleteItem(ctx, semID, ref, itemID))

	cls, _ := c.Model().GetClass(semID, classID)
	require.Empty(t, cls.Sections[models.SectionNotes])
}
