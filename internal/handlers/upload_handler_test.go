package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/evnul000/StudyShelf/internal/middleware"
	"github.com/evnul000/StudyShelf/internal/models"
	"github.com/evnul000/StudyShelf/internal/storage"
)

type fakeFiles struct {
	uploads map[string][]byte
}

func newFakeFiles() *fakeFiles {
	return &fakeFiles{uploads: map[string][]byte{}}
}

func (f *fakeFiles) Upload(_ context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.uploads[key] = data
	return "https://files.example.com/file/studyshelf-files/" + key, nil
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	delete(f.uploads, key)
	return nil
}

func (f *fakeFiles) DeleteByURL(ctx context.Context, url string) error {
	key, err := storage.ParseKey(url)
	if err != nil {
		return err
	}
	return f.Delete(ctx, key)
}

func multipartUpload(t *testing.T, userID, path, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req.WithContext(middleware.WithUserID(req.Context(), userID))
}

func TestUploadPDFReturnsContentItem(t *testing.T) {
	files := newFakeFiles()
	h := NewUploadHandler(files)

	req := multipartUpload(t, testUser, "/api/uploads/pdf", "lecture1.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	h.UploadPDF(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.ContentItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&item))
	require.Equal(t, "lecture1.pdf", item.Name)
	require.Contains(t, item.URL, "/file/studyshelf-files/pdfs/"+testUser+"/")
	require.Len(t, files.uploads, 1)
}

func TestUploadPDFRejectsOtherTypes(t *testing.T) {
	h := NewUploadHandler(newFakeFiles())

	req := multipartUpload(t, testUser, "/api/uploads/pdf", "photo.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	rec := httptest.NewRecorder()
	h.UploadPDF(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// Profile pictures live under one key per user, so a second upload replaces
// the first.
func TestUploadProfilePicUsesStableKey(t *testing.T) {
	files := newFakeFiles()
	h := NewUploadHandler(files)

	for _, data := range [][]byte{[]byte("first"), []byte("second")} {
		req := multipartUpload(t, testUser, "/api/uploads/profile-pic", "me.png", "image/png", data)
		rec := httptest.NewRecorder()
		h.UploadProfilePic(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Contains(t, resp["url"], "/file/studyshelf-files/profilePics/"+testUser)
	}

	require.Len(t, files.uploads, 1)
	require.Equal(t, []byte("second"), files.uploads["profilePics/"+testUser])
}

func TestUploadProfilePicRejectsNonImage(t *testing.T) {
	h := NewUploadHandler(newFakeFiles())

	req := multipartUpload(t, testUser, "/api/uploads/profile-pic", "doc.pdf", "application/pdf", []byte("%PDF-1.4"))
	rec := httptest.NewRecorder()
	h.UploadProfilePic(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateDocumentUploadsEmptyDocx(t *testing.T) {
	files := newFakeFiles()
	h := NewUploadHandler(files)

	var body bytes.Buffer
	require.NoError(t, json.NewEncoder(&body).Encode(map[string]string{"name": "Biology Notes"}))
	req := httptest.NewRequest("POST", "/api/documents", &body)
	req = req.WithContext(middleware.WithUserID(req.Context(), testUser))
	rec := httptest.NewRecorder()
	h.CreateDocument(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var item models.ContentItem
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&item))
	require.Equal(t, "Biology Notes.docx", item.Name)
	require.Equal(t, "<p></p>", item.Content)

	require.Len(t, files.uploads, 1)
	for _, data := range files.uploads {
		require.Equal(t, emptyDocx, data, "stored file must be the prebuilt empty document")
	}
}

// The prebuilt empty document must be a readable archive with all three
// required parts; a truncated or partial build would fail here.
func TestEmptyDocxIsValidArchive(t *testing.T) {
	zr, err := zip.NewReader(bytes.NewReader(emptyDocx), int64(len(emptyDocx)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	require.ElementsMatch(t, []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}, names)

	doc, err := zr.Open("word/document.xml")
	require.NoError(t, err)
	defer doc.Close()
	content, err := io.ReadAll(doc)
	require.NoError(t, err)
	require.Contains(t, string(content), "<w:body>")
}
