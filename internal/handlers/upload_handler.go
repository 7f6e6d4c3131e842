package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/evnul000/StudyShelf/internal/middleware"
	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/storage"
)

const maxUploadBytes = 50 << 20 // 50 MB

// UploadHandler puts files into object storage and returns the content
// item the client then attaches to a section. Upload failures, unlike tree
// mutations, are reported to the user directly.
type UploadHandler struct {
	files storage.Files
}

func NewUploadHandler(files storage.Files) *UploadHandler {
	return &UploadHandler{files: files}
}

// UploadPDF accepts a multipart PDF upload.
func (h *UploadHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		http.Error(w, "Please select a PDF file", http.StatusBadRequest)
		return
	}

	key := storage.UploadKey(storage.KindPDF, userID, header.Filename)
	url, err := h.files.Upload(r.Context(), key, file)
	if err != nil {
		http.Error(w, "Storage error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	item := models.ContentItem{
		Name:    header.Filename,
		URL:     url,
		Size:    header.Size,
		Type:    contentType,
		AddedAt: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

// UploadProfilePic stores the user's profile picture under a stable per-user
// key, so re-uploading replaces the previous picture, and returns its URL.
// The caller persists the URL through the profile update endpoint.
func (h *UploadHandler) UploadProfilePic(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "A file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" {
		http.Error(w, "Please select a PNG or JPEG image", http.StatusBadRequest)
		return
	}

	url, err := h.files.Upload(r.Context(), storage.ProfilePicKey(userID), file)
	if err != nil {
		http.Error(w, "Storage error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}

// CreateDocument creates an empty editable document in storage and returns
// its content item with blank inline HTML.
func (h *UploadHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var payload struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Name == "" {
		http.Error(w, "A document name is required", http.StatusBadRequest)
		return
	}

	fileName := payload.Name + ".docx"
	key := storage.UploadKey(storage.KindDocx, userID, fileName)
	url, err := h.files.Upload(r.Context(), key, emptyDocxReader())
	if err != nil {
		http.Error(w, "Storage error: "+err.Error(), http.StatusInternalServerError)
		return
	}

	item := models.ContentItem{
		Name:    fileName,
		URL:     url,
		Type:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content: "<p></p>",
		AddedAt: time.Now(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}
