package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/evnul000/StudyShelf/internal/middleware"
	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/store"
	"github.com/evnul000/StudyShelf/internal/tree"
)

// SemesterHandler exposes the content tree: semesters, classes, sections,
// items and the drag-drop move commit. All mutations go through the tree
// controller so local state and the document store stay in step.
type SemesterHandler struct {
	tree *tree.Controller
}

func NewSemesterHandler(ctrl *tree.Controller) *SemesterHandler {
	return &SemesterHandler{tree: ctrl}
}

func writeTreeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tree.ErrEmptyName):
		http.Error(w, "Name is required", http.StatusBadRequest)
	case errors.Is(err, tree.ErrCrossSemesterMove):
		http.Error(w, "Items cannot move between semesters", http.StatusBadRequest)
	case errors.Is(err, tree.ErrNotFound), errors.Is(err, store.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, store.ErrVersionConflict):
		http.Error(w, "Semester was modified concurrently, try again", http.StatusConflict)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}

// ownedSemester loads the semester and checks it belongs to the caller.
func ownedSemester(ctrl *tree.Controller, w http.ResponseWriter, r *http.Request) (*models.Semester, bool) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	sem, err := ctrl.Semester(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeTreeError(w, err)
		return nil, false
	}
	if sem.UserID != userID {
		http.Error(w, "Not found", http.StatusNotFound)
		return nil, false
	}
	return sem, true
}

// ListSemesters returns the user's semesters, name-descending.
func (h *SemesterHandler) ListSemesters(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	semesters, err := h.tree.Load(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to fetch semesters", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(semesters)
}

func (h *SemesterHandler) CreateSemester(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Color == "" {
		payload.Color = "#3b82f6"
	}

	sem, err := h.tree.AddSemester(r.Context(), userID, payload.Name, payload.Color)
	if err != nil {
		writeTreeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(sem)
}

func (h *SemesterHandler) GetSemester(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(sem)
}

func (h *SemesterHandler) RenameSemester(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.tree.RenameSemester(r.Context(), sem.ID.Hex(), payload.Name); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Semester renamed successfully"))
}

func (h *SemesterHandler) DeleteSemester(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	if err := h.tree.DeleteSemester(r.Context(), sem.ID.Hex()); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Semester deleted successfully"))
}

func (h *SemesterHandler) CreateClass(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var payload struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if payload.Color == "" {
		payload.Color = "#10b981"
	}

	cls, err := h.tree.AddClass(r.Context(), sem.ID.Hex(), payload.Name, payload.Color)
	if err != nil {
		writeTreeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cls)
}

func (h *SemesterHandler) GetClass(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	cls, err := h.tree.Class(r.Context(), sem.ID.Hex(), mux.Vars(r)["classId"])
	if err != nil {
		writeTreeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cls)
}

func (h *SemesterHandler) RenameClass(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.tree.RenameClass(r.Context(), sem.ID.Hex(), mux.Vars(r)["classId"], payload.Name); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Class renamed successfully"))
}

func (h *SemesterHandler) DeleteClass(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	if err := h.tree.DeleteClass(r.Context(), sem.ID.Hex(), mux.Vars(r)["classId"]); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Class deleted successfully"))
}

func (h *SemesterHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.tree.AddSection(r.Context(), sem.ID.Hex(), mux.Vars(r)["classId"], payload.Name); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	w.Write([]byte("Section created"))
}

func (h *SemesterHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	if err := h.tree.DeleteSection(r.Context(), sem.ID.Hex(), vars["classId"], vars["section"]); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Section deleted successfully"))
}

func (h *SemesterHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var item models.ContentItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	ref := tree.SectionRef{ClassID: vars["classId"], Section: vars["section"]}
	added, err := h.tree.AddItem(r.Context(), sem.ID.Hex(), ref, item)
	if err != nil {
		writeTreeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(added)
}

// UpdateItem renames an item or, for editable documents, saves new content
// and the re-uploaded file's URL and size.
func (h *SemesterHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var payload struct {
		Name    string `json:"name"`
		Content string `json:"content"`
		URL     string `json:"url"`
		Size    int64  `json:"size"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	vars := mux.Vars(r)
	ref := tree.SectionRef{ClassID: vars["classId"], Section: vars["section"]}

	var err error
	if payload.Content != "" || payload.URL != "" {
		err = h.tree.UpdateItemDocument(r.Context(), sem.ID.Hex(), ref, vars["itemId"], payload.Content, payload.URL, payload.Size)
	} else {
		err = h.tree.RenameItem(r.Context(), sem.ID.Hex(), ref, vars["itemId"], payload.Name)
	}
	if err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Item updated successfully"))
}

func (h *SemesterHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	vars := mux.Vars(r)
	ref := tree.SectionRef{ClassID: vars["classId"], Section: vars["section"]}
	if err := h.tree.DeleteItem(r.Context(), sem.ID.Hex(), ref, vars["itemId"]); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Item deleted successfully"))
}

// DropItem commits a drag gesture. The client reports where the drag
// started and where it ended; equal locations and missing targets no-op.
func (h *SemesterHandler) DropItem(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var drop tree.Drop
	if err := json.NewDecoder(r.Body).Decode(&drop); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	drop.From.SemesterID = sem.ID.Hex()

	if err := h.tree.HandleDrop(r.Context(), drop); err != nil {
		writeTreeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Item moved successfully"))
}
