package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/store"
)

// maxWriteAttempts bounds version-conflict retries before giving up.
const maxWriteAttempts = 3

// FileStore is the slice of object storage the tree needs: best-effort
// deletion of an item's backing file, addressed by its stored URL.
type FileStore interface {
	DeleteByURL(ctx context.Context, url string) error
}

// Controller applies mutations optimistically to the in-memory model and
// persists them to the document store. Every mutation updates local state
// first, then issues a single whole-array write of the semester's classes.
// A version conflict refetches and reapplies; any other write failure rolls
// local state back to the pre-mutation snapshot and surfaces the error.
type Controller struct {
	store  store.Semesters
	files  FileStore
	model  *Model
	logger *zap.Logger
}

func NewController(st store.Semesters, files FileStore, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		store:  st,
		files:  files,
		model:  NewModel(),
		logger: logger,
	}
}

// Model exposes the in-memory mirror for read paths.
func (c *Controller) Model() *Model { return c.model }

// Load fetches all of a user's semesters into the model. A remote failure
// is returned, not swallowed: callers can tell "no data" from "load failed".
func (c *Controller) Load(ctx context.Context, userID string) ([]models.Semester, error) {
	semesters, err := c.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading semesters: %w", err)
	}
	c.model.ReplaceUser(userID, semesters)
	return c.model.ListByUser(userID), nil
}

// Semester returns one semester, consulting the model first and falling
// back to the store.
func (c *Controller) Semester(ctx context.Context, id string) (*models.Semester, error) {
	if sem, ok := c.model.Get(id); ok {
		return &sem, nil
	}
	sem, err := c.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.model.Put(*sem)
	return sem, nil
}

// Class returns one class out of a semester's tree.
func (c *Controller) Class(ctx context.Context, semesterID, classID string) (*models.Class, error) {
	sem, err := c.Semester(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	for _, cls := range sem.Classes {
		if cls.ID == classID {
			return &cls, nil
		}
	}
	return nil, fmt.Errorf("%w: class %s", ErrNotFound, classID)
}

func (c *Controller) AddSemester(ctx context.Context, userID, name, color string) (*models.Semester, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	sem := models.Semester{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Color:     color,
		UserID:    userID,
		CreatedAt: time.Now(),
		Classes:   []models.Class{},
	}
	if err := c.store.Insert(ctx, &sem); err != nil {
		return nil, fmt.Errorf("adding semester: %w", err)
	}
	c.model.Put(sem)
	return &sem, nil
}

func (c *Controller) RenameSemester(ctx context.Context, id, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	cur, err := c.Semester(ctx, id)
	if err != nil {
		return err
	}
	snapshot := cloneSemester(*cur)

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		renamed := cloneSemester(*cur)
		renamed.Name = name
		renamed.Version = cur.Version + 1
		c.model.Put(renamed)

		err = c.store.UpdateName(ctx, id, name, cur.Version)
		if err == nil {
			return nil
		}
		if errors.Is(err, store.ErrVersionConflict) {
			if cur, err = c.refetch(ctx, id); err != nil {
				c.model.Put(snapshot)
				return err
			}
			continue
		}
		c.rollback(snapshot, "rename semester", err)
		return err
	}
	c.model.Put(*cur)
	return fmt.Errorf("renaming semester %s: %w", id, store.ErrVersionConflict)
}

// DeleteSemester removes the whole document. Backing files of contained
// items are not deleted on this path; they remain in storage.
func (c *Controller) DeleteSemester(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.model.Remove(id)
	return nil
}

func (c *Controller) AddClass(ctx context.Context, semesterID, name, color string) (*models.Class, error) {
	var created *models.Class
	err := c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		next, cls, err := addClass(classes, name, color)
		created = cls
		return next, true, err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Controller) RenameClass(ctx context.Context, semesterID, classID, name string) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		return classes, true, renameClass(classes, classID, name)
	})
}

// DeleteClass drops the class and everything under it. Like the original
// section-delete path, contained files stay in object storage.
func (c *Controller) DeleteClass(ctx context.Context, semesterID, classID string) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		next, err := deleteClass(classes, classID)
		return next, true, err
	})
}

func (c *Controller) AddSection(ctx context.Context, semesterID, classID, section string) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		changed, err := addSection(classes, classID, section)
		return classes, changed, err
	})
}

func (c *Controller) DeleteSection(ctx context.Context, semesterID, classID, section string) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		return classes, true, deleteSection(classes, classID, section)
	})
}

func (c *Controller) AddItem(ctx context.Context, semesterID string, ref SectionRef, item models.ContentItem) (*models.ContentItem, error) {
	var added *models.ContentItem
	err := c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		it, err := addItem(classes, ref, item)
		added = it
		return classes, true, err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// AddExam files an exam as an item in the class's exams section, creating
// the section on first use. Both land in one document update, so a failed
// write never leaves an empty exams section behind.
func (c *Controller) AddExam(ctx context.Context, semesterID, classID string, exam models.Exam) (*models.ContentItem, error) {
	var added *models.ContentItem
	err := c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		if _, err := addSection(classes, classID, models.SectionExams); err != nil {
			return classes, false, err
		}
		it, err := addItem(classes, SectionRef{ClassID: classID, Section: models.SectionExams},
			models.ContentItem{Name: exam.Title, Exam: &exam})
		added = it
		return classes, true, err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func (c *Controller) RenameItem(ctx context.Context, semesterID string, ref SectionRef, itemID, name string) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		return classes, true, renameItem(classes, ref, itemID, name)
	})
}

// UpdateItemDocument persists an editor save: new inline HTML, and the
// re-uploaded file's URL and size when they changed.
func (c *Controller) UpdateItemDocument(ctx context.Context, semesterID string, ref SectionRef, itemID, content, url string, size int64) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		return classes, true, updateItemDocument(classes, ref, itemID, content, url, size)
	})
}

// DeleteItem removes the item from its section and then best-effort deletes
// the backing file. Deleting an id that is already gone is a no-op. A file
// that cannot be deleted (unparseable URL, storage error) is logged and
// left orphaned; the document mutation stands either way.
func (c *Controller) DeleteItem(ctx context.Context, semesterID string, ref SectionRef, itemID string) error {
	var removed *models.ContentItem
	err := c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		it, err := deleteItem(classes, ref, itemID)
		removed = it
		return classes, it != nil, err
	})
	if err != nil {
		return err
	}
	if removed != nil && removed.URL != "" && c.files != nil {
		if err := c.files.DeleteByURL(ctx, removed.URL); err != nil {
			c.logger.Warn("backing file not deleted, leaving it orphaned",
				zap.String("item_id", itemID),
				zap.String("url", removed.URL),
				zap.Error(err))
		}
	}
	return nil
}

// MoveItem reclassifies an item to another (class, section) pair within the
// same semester, as one document update. Moving an item onto its current
// location changes nothing.
func (c *Controller) MoveItem(ctx context.Context, semesterID, itemID string, from, to SectionRef) error {
	return c.mutateClasses(ctx, semesterID, func(classes []models.Class) ([]models.Class, bool, error) {
		changed, err := moveItem(classes, itemID, from, to)
		return classes, changed, err
	})
}

// mutateClasses runs one read-modify-write cycle: deep-copy the current
// classes, apply op, put the result in the model, then write the whole
// array with a version check. Conflicts refetch and reapply; other write
// failures roll the model back to the snapshot.
func (c *Controller) mutateClasses(ctx context.Context, semesterID string, op func([]models.Class) ([]models.Class, bool, error)) error {
	cur, err := c.Semester(ctx, semesterID)
	if err != nil {
		return err
	}
	snapshot := cloneSemester(*cur)

	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		next, changed, err := op(cloneClasses(cur.Classes))
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}

		applied := cloneSemester(*cur)
		applied.Classes = next
		applied.Version = cur.Version + 1
		c.model.Put(applied)

		err = c.store.UpdateClasses(ctx, semesterID, next, cur.Version)
		if err == nil {
			return nil
		}
		if errors.Is(err, store.ErrVersionConflict) {
			c.logger.Info("semester write lost a race, retrying",
				zap.String("semester_id", semesterID),
				zap.Int("attempt", attempt+1))
			if cur, err = c.refetch(ctx, semesterID); err != nil {
				c.model.Put(snapshot)
				return err
			}
			continue
		}
		c.rollback(snapshot, "update classes", err)
		return err
	}
	c.model.Put(*cur)
	return fmt.Errorf("updating semester %s: %w", semesterID, store.ErrVersionConflict)
}

func (c *Controller) refetch(ctx context.Context, semesterID string) (*models.Semester, error) {
	sem, err := c.store.Get(ctx, semesterID)
	if err != nil {
		return nil, err
	}
	c.model.Put(*sem)
	return sem, nil
}

func (c *Controller) rollback(snapshot models.Semester, op string, cause error) {
	c.model.Put(snapshot)
	c.logger.Error("remote write failed, local state rolled back",
		zap.String("op", op),
		zap.String("semester_id", snapshot.ID.Hex()),
		zap.Error(cause))
}
