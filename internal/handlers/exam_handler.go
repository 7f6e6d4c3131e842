package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/tree"
)

// ExamHandler creates practice exams as items in a class's exams section.
// Exams are immutable once created; deletion goes through the regular item
// delete path.
type ExamHandler struct {
	tree *tree.Controller
}

func NewExamHandler(ctrl *tree.Controller) *ExamHandler {
	return &ExamHandler{tree: ctrl}
}

func (h *ExamHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	sem, ok := ownedSemester(h.tree, w, r)
	if !ok {
		return
	}

	var exam models.Exam
	if err := json.NewDecoder(r.Body).Decode(&exam); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if exam.Title == "" || len(exam.Questions) == 0 {
		http.Error(w, "Exam title and at least one question are required", http.StatusBadRequest)
		return
	}
	for _, q := range exam.Questions {
		if q.Type != models.QuestionMultiple && q.Type != models.QuestionShort {
			http.Error(w, "Question type must be multiple or short", http.StatusBadRequest)
			return
		}
		if q.Type == models.QuestionMultiple && (q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options)) {
			http.Error(w, "Correct answer must index one of the options", http.StatusBadRequest)
			return
		}
	}
	if exam.ThemeColor == "" {
		exam.ThemeColor = "#3b82f6"
	}
	exam.CreatedAt = time.Now()

	added, err := h.tree.AddExam(r.Context(), sem.ID.Hex(), mux.Vars(r)["classId"], exam)
	if err != nil {
		writeTreeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(added)
}
