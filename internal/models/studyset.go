package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Card struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

// StudySet is owned independently of any semester. Classes reference a set
// by id inside their studySets section; deleting the set does not remove
// those references.
type StudySet struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID    string             `json:"user_id" bson:"userId"`
	Name      string             `json:"name" bson:"name"`
	Color     string             `json:"color" bson:"color"`
	Cards     []Card             `json:"cards" bson:"cards"`
	CreatedAt time.Time          `json:"created_at" bson:"createdAt"`
}
