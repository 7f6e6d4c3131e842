package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EventType string

const (
	EventHomework EventType = "homework"
	EventExam     EventType = "exam"
)

// Event is a dashboard calendar entry, independent of the semester tree.
type Event struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"userId"`
	Title     string             `json:"title" bson:"title"`
	Type      EventType          `json:"type" bson:"type"`
	Date      time.Time          `json:"date" bson:"date"`
	DueTime   string             `json:"due_time" bson:"dueTime"`
	Completed bool               `json:"completed" bson:"completed"`
}
