package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/evnul000/StudyShelf/internal/models"
)

// MongoSemesters persists semester documents in the "semesters" collection.
type MongoSemesters struct {
	collection *mongo.Collection
}

func NewMongoSemesters(client *mongo.Client, dbName string) *MongoSemesters {
	return &MongoSemesters{
		collection: client.Database(dbName).Collection("semesters"),
	}
}

func (s *MongoSemesters) ListByUser(ctx context.Context, userID string) ([]models.Semester, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := s.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var semesters []models.Semester
	if err = cursor.All(ctx, &semesters); err != nil {
		return nil, err
	}
	for i := range semesters {
		if semesters[i].Classes == nil {
			semesters[i].Classes = []models.Class{}
		}
	}
	return semesters, nil
}

func (s *MongoSemesters) Get(ctx context.Context, id string) (*models.Semester, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var semester models.Semester
	err = s.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&semester)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if semester.Classes == nil {
		semester.Classes = []models.Class{}
	}
	return &semester, nil
}

func (s *MongoSemesters) Insert(ctx context.Context, semester *models.Semester) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.collection.InsertOne(ctx, semester)
	return err
}

func (s *MongoSemesters) UpdateClasses(ctx context.Context, id string, classes []models.Class, version int64) error {
	return s.versionedUpdate(ctx, id, version, bson.M{"classes": classes, "version": version + 1})
}

func (s *MongoSemesters) UpdateName(ctx context.Context, id, name string, version int64) error {
	return s.versionedUpdate(ctx, id, version, bson.M{"name": name, "version": version + 1})
}

// versionedUpdate writes only if the stored version still matches the one
// the caller read. A matched count of zero means either the document is
// gone or someone else won the write; a follow-up lookup tells them apart.
func (s *MongoSemesters) versionedUpdate(ctx context.Context, id string, version int64, set bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "version": version},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		err := s.collection.FindOne(ctx, bson.M{"_id": objID}).Err()
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *MongoSemesters) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
