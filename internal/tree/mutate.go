package tree

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evnul000/StudyShelf/internal/models"
)

// SectionRef names a (class, section) pair inside one semester.
type SectionRef struct {
	ClassID string `json:"class_id"`
	Section string `json:"section"`
}

// The functions below are the mutation engine proper. Each one receives an
// already deep-copied classes slice from the sync controller, applies a
// single structural change in place and reports whether anything changed.

func addClass(classes []models.Class, name, color string) ([]models.Class, *models.Class, error) {
	if strings.TrimSpace(name) == "" {
		return nil, nil, ErrEmptyName
	}
	cls := models.Class{
		ID:       uuid.NewString(),
		Name:     name,
		Color:    color,
		Sections: map[string][]models.ContentItem{},
	}
	return append(classes, cls), &cls, nil
}

func renameClass(classes []models.Class, classID, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	cls, err := findClass(classes, classID)
	if err != nil {
		return err
	}
	cls.Name = name
	return nil
}

func deleteClass(classes []models.Class, classID string) ([]models.Class, error) {
	for i, cls := range classes {
		if cls.ID == classID {
			return append(classes[:i], classes[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("%w: class %s", ErrNotFound, classID)
}

// addSection is a no-op if the section already exists on the class.
func addSection(classes []models.Class, classID, section string) (bool, error) {
	if strings.TrimSpace(section) == "" {
		return false, ErrEmptyName
	}
	cls, err := findClass(classes, classID)
	if err != nil {
		return false, err
	}
	if _, exists := cls.Sections[section]; exists {
		return false, nil
	}
	cls.Sections[section] = []models.ContentItem{}
	return true, nil
}

// deleteSection removes the section key outright. Contained items are gone
// from the tree; their backing files are not touched here (accepted leak).
func deleteSection(classes []models.Class, classID, section string) error {
	cls, err := findClass(classes, classID)
	if err != nil {
		return err
	}
	if _, exists := cls.Sections[section]; !exists {
		return fmt.Errorf("%w: section %s", ErrNotFound, section)
	}
	delete(cls.Sections, section)
	return nil
}

func addItem(classes []models.Class, ref SectionRef, item models.ContentItem) (*models.ContentItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, ErrEmptyName
	}
	items, err := findSection(classes, ref)
	if err != nil {
		return nil, err
	}
	cls, _ := findClass(classes, ref.ClassID)
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = time.Now()
	}
	cls.Sections[ref.Section] = append(items, item)
	return &item, nil
}

func renameItem(classes []models.Class, ref SectionRef, itemID, name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	item, err := findItem(classes, ref, itemID)
	if err != nil {
		return err
	}
	item.Name = name
	return nil
}

// updateItemDocument rewrites an editable document's persisted fields after
// a save from the editor.
func updateItemDocument(classes []models.Class, ref SectionRef, itemID, content, url string, size int64) error {
	item, err := findItem(classes, ref, itemID)
	if err != nil {
		return err
	}
	now := time.Now()
	item.Content = content
	item.LastUpdated = &now
	if url != "" {
		item.URL = url
	}
	if size > 0 {
		item.Size = size
	}
	return nil
}

// deleteItem removes one item by id. A missing item is a safe no-op: the
// returned item is nil and nothing changed.
func deleteItem(classes []models.Class, ref SectionRef, itemID string) (*models.ContentItem, error) {
	items, err := findSection(classes, ref)
	if err != nil {
		return nil, err
	}
	cls, _ := findClass(classes, ref.ClassID)
	for i, item := range items {
		if item.ID == itemID {
			removed := item
			cls.Sections[ref.Section] = append(items[:i], items[i+1:]...)
			return &removed, nil
		}
	}
	return nil, nil
}

// moveItem detaches the item from its source section and appends the same
// item to the target section, all within one classes slice so the change
// persists as a single document update. A move onto the current location
// is the identity.
func moveItem(classes []models.Class, itemID string, from, to SectionRef) (bool, error) {
	if from == to {
		return false, nil
	}
	if _, err := findSection(classes, to); err != nil {
		return false, err
	}

	items, err := findSection(classes, from)
	if err != nil {
		return false, err
	}
	srcCls, _ := findClass(classes, from.ClassID)

	var moved *models.ContentItem
	for i, item := range items {
		if item.ID == itemID {
			m := item
			moved = &m
			srcCls.Sections[from.Section] = append(items[:i], items[i+1:]...)
			break
		}
	}
	if moved == nil {
		return false, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
	}

	dstCls, _ := findClass(classes, to.ClassID)
	dstCls.Sections[to.Section] = append(dstCls.Sections[to.Section], *moved)
	return true, nil
}

func findClass(classes []models.Class, classID string) (*models.Class, error) {
	for i := range classes {
		if classes[i].ID == classID {
			return &classes[i], nil
		}
	}
	return nil, fmt.Errorf("%w: class %s", ErrNotFound, classID)
}

func findSection(classes []models.Class, ref SectionRef) ([]models.ContentItem, error) {
	cls, err := findClass(classes, ref.ClassID)
	if err != nil {
		return nil, err
	}
	items, exists := cls.Sections[ref.Section]
	if !exists {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, ref.Section)
	}
	return items, nil
}

func findItem(classes []models.Class, ref SectionRef, itemID string) (*models.ContentItem, error) {
	cls, err := findClass(classes, ref.ClassID)
	if err != nil {
		return nil, err
	}
	items, exists := cls.Sections[ref.Section]
	if !exists {
		return nil, fmt.Errorf("%w: section %s", ErrNotFound, ref.Section)
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("%w: item %s", ErrNotFound, itemID)
}
