package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section names used by the class content tree.
const (
	SectionTextbook  = "textbook"
	SectionNotes     = "notes"
	SectionHomework  = "homework"
	SectionExams     = "exams"
	SectionStudySets = "studySets"
)

// Semester is the top-level owned container. The whole class tree lives
// inside one document; every tree mutation rewrites the classes array and
// bumps Version.
type Semester struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Color     string             `json:"color" bson:"color"`
	UserID    string             `json:"user_id" bson:"userId"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
	Version   int64              `json:"version" bson:"version"`
	Classes   []Class            `json:"classes" bson:"classes"`
}

// Class lives inside a Semester document, never in its own collection, so
// its ID is a uuid string rather than an ObjectID.
type Class struct {
	ID       string                   `json:"id" bson:"id"`
	Name     string                   `json:"name" bson:"name"`
	Color    string                   `json:"color" bson:"color"`
	Sections map[string][]ContentItem `json:"sections" bson:"sections"`
}

// ContentItem is one entry in a section: an uploaded PDF, an editable
// document, an exam, or a study-set reference. An item belongs to exactly
// one (class, section) pair at a time.
type ContentItem struct {
	ID          string     `json:"id" bson:"id"`
	Name        string     `json:"name" bson:"name"`
	URL         string     `json:"url,omitempty" bson:"url,omitempty"`
	Size        int64      `json:"size,omitempty" bson:"size,omitempty"`
	Type        string     `json:"type,omitempty" bson:"type,omitempty"`
	AddedAt     time.Time  `json:"added_at" bson:"addedAt"`
	Content     string     `json:"content,omitempty" bson:"content,omitempty"`
	LastUpdated *time.Time `json:"last_updated,omitempty" bson:"lastUpdated,omitempty"`
	Exam        *Exam      `json:"exam,omitempty" bson:"exam,omitempty"`
	StudySetID  string     `json:"study_set_id,omitempty" bson:"studySetId,omitempty"`
}
