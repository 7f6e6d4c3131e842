package tree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/store"
)

const testUser = "user-1"

func newTestController(t *testing.T) (*Controller, *store.InMem) {
	t.Helper()
	st := store.NewInMem()
	return NewController(st, nil, nil), st
}

// seedSemester builds the Scenario A fixture: Fall 2025 > CS101 > notes
// with one lecture PDF.
func seedSemester(t *testing.T, c *Controller) (semID, classID, itemID string) {
	t.Helper()
	ctx := context.Background()

	sem, err := c.AddSemester(ctx, testUser, "Fall 2025", "#3b82f6")
	require.NoError(t, err)

	cls, err := c.AddClass(ctx, sem.ID.Hex(), "CS101", "#10b981")
	require.NoError(t, err)

	require.NoError(t, c.AddSection(ctx, sem.ID.Hex(), cls.ID, models.SectionNotes))

	item, err := c.AddItem(ctx, sem.ID.Hex(), SectionRef{ClassID: cls.ID, Section: models.SectionNotes},
		models.ContentItem{Name: "lecture1.pdf", URL: "b2://studyshelf/pdfs/u/1_lecture1.pdf", Type: "application/pdf"})
	require.NoError(t, err)

	return sem.ID.Hex(), cls.ID, item.ID
}

func TestAddSemesterValidation(t *testing.T) {
	c, _ := newTestController(t)

	_, err := c.AddSemester(context.Background(), testUser, "   ", "#fff")
	require.ErrorIs(t, err, ErrEmptyName)
}

func TestScenarioABuildTree(t *testing.T) {
	c, _ := newTestController(t)
	semID, classID, itemID := seedSemester(t, c)

	sem, ok := c.Model().Get(semID)
	require.True(t, ok)
	require.Equal(t, "Fall 2025", sem.Name)
	require.Equal(t, "#3b82f6", sem.Color)
	require.Len(t, sem.Classes, 1)

	cls := sem.Classes[0]
	require.Equal(t, classID, cls.ID)
	require.Equal(t, "CS101", cls.Name)
	require.Len(t, cls.Sections[models.SectionNotes], 1)
	require.Equal(t, itemID, cls.Sections[models.SectionNotes][0].ID)
	require.Equal(t, "lecture1.pdf", cls.Sections[models.SectionNotes][0].Name)
}

func TestScenarioBMoveItemToNewSection(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	require.NoError(t, c.AddSection(ctx, semID, classID, models.SectionHomework))
	require.NoError(t, c.MoveItem(ctx, semID, itemID,
		SectionRef{ClassID: classID, Section: models.SectionNotes},
		SectionRef{ClassID: classID, Section: models.SectionHomework}))

	cls, ok := c.Model().GetClass(semID, classID)
	require.True(t, ok)
	require.Empty(t, cls.Sections[models.SectionNotes])
	require.Len(t, cls.Sections[models.SectionHomework], 1)
	require.Equal(t, itemID, cls.Sections[models.SectionHomework][0].ID)
}

func TestScenarioCDeleteClass(t *testing.T) {
	c, _ := newTestController(t)
	semID, classID, _ := seedSemester(t, c)

	require.NoError(t, c.DeleteClass(context.Background(), semID, classID))

	sem, ok := c.Model().Get(semID)
	require.True(t, ok)
	require.Empty(t, sem.Classes)
	// the item's backing file is intentionally NOT deleted on this path
}

func TestScenarioDRapidAddClassDistinctIDs(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, _, _ := seedSemester(t, c)

	a, err := c.AddClass(ctx, semID, "MATH200", "#f59e0b")
	require.NoError(t, err)
	b, err := c.AddClass(ctx, semID, "MATH200", "#f59e0b")
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)

	sem, _ := c.Model().Get(semID)
	require.Len(t, sem.Classes, 3)
}

func TestAddSectionExistingIsNoop(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, classID, _ := seedSemester(t, c)

	before, err := st.Get(ctx, semID)
	require.NoError(t, err)

	require.NoError(t, c.AddSection(ctx, semID, classID, models.SectionNotes))

	after, err := st.Get(ctx, semID)
	require.NoError(t, err)
	require.Equal(t, before.Version, after.Version, "no-op add must not persist")
}

func TestDeleteSectionRemovesKey(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, _ := seedSemester(t, c)

	require.NoError(t, c.DeleteSection(ctx, semID, classID, models.SectionNotes))

	cls, ok := c.Model().GetClass(semID, classID)
	require.True(t, ok)
	_, exists := cls.Sections[models.SectionNotes]
	require.False(t, exists)

	err := c.DeleteSection(ctx, semID, classID, models.SectionNotes)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMoveItemNoopIsIdentity(t *testing.T) {
	c, st := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	before, err := st.Get(ctx, semID)
	require.NoError(t, err)

	ref := SectionRef{ClassID: classID, Section: models.SectionNotes}
	require.NoError(t, c.MoveItem(ctx, semID, itemID, ref, ref))

	after, err := st.Get(ctx, semID)
	require.NoError(t, err)
	require.Equal(t, before.Version, after.Version)
	require.Equal(t, before.Classes, after.Classes)
}

func TestMoveItemBetweenClassesConservesItems(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	other, err := c.AddClass(ctx, semID, "PHYS110", "#ef4444")
	require.NoError(t, err)
	require.NoError(t, c.AddSection(ctx, semID, other.ID, models.SectionTextbook))

	require.NoError(t, c.MoveItem(ctx, semID, itemID,
		SectionRef{ClassID: classID, Section: models.SectionNotes},
		SectionRef{ClassID: other.ID, Section: models.SectionTextbook}))

	sem, _ := c.Model().Get(semID)
	total := 0
	locations := 0
	for _, cls := range sem.Classes {
		for _, items := range cls.Sections {
			for _, item := range items {
				total++
				if item.ID == itemID {
					locations++
				}
			}
		}
	}
	require.Equal(t, 1, total)
	require.Equal(t, 1, locations, "item must live in exactly one section")
}

func TestMoveItemMissingTargetSection(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	err := c.MoveItem(ctx, semID, itemID,
		SectionRef{ClassID: classID, Section: models.SectionNotes},
		SectionRef{ClassID: classID, Section: "nonexistent"})
	require.ErrorIs(t, err, ErrNotFound)

	// source untouched
	cls, _ := c.Model().GetClass(semID, classID)
	require.Len(t, cls.Sections[models.SectionNotes], 1)
}

func TestDeleteItemTwiceIsSafe(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	ref := SectionRef{ClassID: classID, Section: models.SectionNotes}
	require.NoError(t, c.DeleteItem(ctx, semID, ref, itemID))
	require.NoError(t, c.DeleteItem(ctx, semID, ref, itemID))

	cls, _ := c.Model().GetClass(semID, classID)
	require.Empty(t, cls.Sections[models.SectionNotes])
}

func TestRenameOperations(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	require.NoError(t, c.RenameSemester(ctx, semID, "Spring 2026"))
	require.NoError(t, c.RenameClass(ctx, semID, classID, "CS102"))
	ref := SectionRef{ClassID: classID, Section: models.SectionNotes}
	require.NoError(t, c.RenameItem(ctx, semID, ref, itemID, "lecture1-final.pdf"))

	sem, _ := c.Model().Get(semID)
	require.Equal(t, "Spring 2026", sem.Name)
	require.Equal(t, "CS102", sem.Classes[0].Name)
	require.Equal(t, "lecture1-final.pdf", sem.Classes[0].Sections[models.SectionNotes][0].Name)

	require.ErrorIs(t, c.RenameClass(ctx, semID, classID, " "), ErrEmptyName)
}

// Mutating one class must never touch sibling branches through shared
// references.
func TestSiblingBranchesNotCorrupted(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, _ := seedSemester(t, c)

	other, err := c.AddClass(ctx, semID, "BIO150", "#8b5cf6")
	require.NoError(t, err)
	require.NoError(t, c.AddSection(ctx, semID, other.ID, models.SectionNotes))

	before, ok := c.Model().GetClass(semID, classID)
	require.True(t, ok)

	_, err = c.AddItem(ctx, semID, SectionRef{ClassID: other.ID, Section: models.SectionNotes},
		models.ContentItem{Name: "cells.pdf"})
	require.NoError(t, err)

	after, ok := c.Model().GetClass(semID, classID)
	require.True(t, ok)
	require.Equal(t, before, after, "sibling class changed by unrelated mutation")
}

func TestUpdateItemDocument(t *testing.T) {
	c, _ := newTestController(t)
	ctx := context.Background()
	semID, classID, itemID := seedSemester(t, c)

	ref := SectionRef{ClassID: classID, Section: models.SectionNotes}
	require.NoError(t, c.UpdateItemDocument(ctx, semID, ref, itemID,
		"<p>hello</p>", "b2://studyshelf/docx/u/2_notes.docx", 1234))

	cls, _ := c.Model().GetClass(semID, classID)
	item := cls.Sections[models.SectionNotes][0]
	require.Equal(t, "<p>hello</p>", item.Content)
	require.Equal(t, "b2://studyshelf/docx/u/2_notes.docx", item.URL)
	require.EqualValues(t, 1234, item.Size)
	require.NotNil(t, item.LastUpdated)
}
