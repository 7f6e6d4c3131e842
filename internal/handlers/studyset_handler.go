package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/evnul000/StudyShelf/internal/middleware"
	"github.com/evnul000/StudyShelf/internal/models"
)

// StudySetHandler manages the user's flashcard sets. Sets live in their
// own collection; classes only hold references to them, so deleting a set
// here leaves any class references dangling by design.
type StudySetHandler struct {
	collection *mongo.Collection
}

func NewStudySetHandler(client *mongo.Client, dbName string) *StudySetHandler {
	return &StudySetHandler{
		collection: client.Database(dbName).Collection("studySets"),
	}
}

func (h *StudySetHandler) CreateStudySet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var set models.StudySet
	if err := json.NewDecoder(r.Body).Decode(&set); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if set.Name == "" {
		http.Error(w, "Study set name is required", http.StatusBadRequest)
		return
	}
	if set.Color == "" {
		set.Color = "#6366f1"
	}
	if set.Cards == nil {
		set.Cards = []models.Card{}
	}
	set.ID = primitive.NewObjectID()
	set.UserID = userID
	set.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if _, err := h.collection.InsertOne(ctx, set); err != nil {
		http.Error(w, "Failed to create study set", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(set)
}

func (h *StudySetHandler) GetStudySets(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	cursor, err := h.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		http.Error(w, "Failed to fetch study sets", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	sets := []models.StudySet{}
	if err = cursor.All(ctx, &sets); err != nil {
		http.Error(w, "Error decoding study sets", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sets)
}

func (h *StudySetHandler) GetStudySetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["setId"])
	if err != nil {
		http.Error(w, "Invalid study set ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var set models.StudySet
	err = h.collection.FindOne(ctx, bson.M{"_id": objID, "userId": userID}).Decode(&set)
	if err != nil {
		http.Error(w, "Study set not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(set)
}

// AddCard appends one card to a set.
func (h *StudySetHandler) AddCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["setId"])
	if err != nil {
		http.Error(w, "Invalid study set ID", http.StatusBadRequest)
		return
	}

	var card models.Card
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if card.Question == "" || card.Answer == "" {
		http.Error(w, "Question and answer are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.collection.UpdateOne(ctx,
		bson.M{"_id": objID, "userId": userID},
		bson.M{"$push": bson.M{"cards": card}},
	)
	if err != nil {
		http.Error(w, "Failed to add card", http.StatusInternalServerError)
		return
	}
	if res.MatchedCount == 0 {
		http.Error(w, "Study set not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("Card added"))
}

// RemoveCard deletes the card at the given index.
func (h *StudySetHandler) RemoveCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	objID, err := primitive.ObjectIDFromHex(vars["setId"])
	if err != nil {
		http.Error(w, "Invalid study set ID", http.StatusBadRequest)
		return
	}

	var payload struct {
		Index int `json:"index"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Index < 0 {
		http.Error(w, "A card index is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var set models.StudySet
	err = h.collection.FindOne(ctx, bson.M{"_id": objID, "userId": userID}).Decode(&set)
	if err != nil {
		http.Error(w, "Study set not found", http.StatusNotFound)
		return
	}
	if payload.Index >= len(set.Cards) {
		http.Error(w, "Card index out of range", http.StatusBadRequest)
		return
	}
	cards := append(set.Cards[:payload.Index], set.Cards[payload.Index+1:]...)

	_, err = h.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"cards": cards}})
	if err != nil {
		http.Error(w, "Failed to remove card", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Card removed"))
}

// DeleteStudySet removes the set. Class sections referencing it keep their
// reference; resolution simply comes up empty afterwards.
func (h *StudySetHandler) DeleteStudySet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	objID, err := primitive.ObjectIDFromHex(mux.Vars(r)["setId"])
	if err != nil {
		http.Error(w, "Invalid study set ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := h.collection.DeleteOne(ctx, bson.M{"_id": objID, "userId": userID})
	if err != nil {
		http.Error(w, "Failed to delete study set", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "Study set not found", http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Study set deleted successfully"))
}
