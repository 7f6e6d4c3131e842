package tree

import "github.com/evnul000/StudyShelf/internal/models"

// Mutations always operate on deep copies so sibling branches are never
// shared between the local model, in-flight writes and callers.

func cloneSemester(sem models.Semester) models.Semester {
	sem.Classes = cloneClasses(sem.Classes)
	return sem
}

func cloneClasses(classes []models.Class) []models.Class {
	out := make([]models.Class, len(classes))
	for i, cls := range classes {
		out[i] = cloneClass(cls)
	}
	return out
}

func cloneClass(cls models.Class) models.Class {
	sections := make(map[string][]models.ContentItem, len(cls.Sections))
	for name, items := range cls.Sections {
		copied := make([]models.ContentItem, len(items))
		for i, item := range items {
			copied[i] = cloneItem(item)
		}
		sections[name] = copied
	}
	cls.Sections = sections
	return cls
}

func cloneItem(item models.ContentItem) models.ContentItem {
	if item.LastUpdated != nil {
		t := *item.LastUpdated
		item.LastUpdated = &t
	}
	if item.Exam != nil {
		exam := *item.Exam
		exam.Questions = make([]models.Question, len(item.Exam.Questions))
		for i, q := range item.Exam.Questions {
			q.Options = append([]string(nil), q.Options...)
			exam.Questions[i] = q
		}
		item.Exam = &exam
	}
	return item
}
