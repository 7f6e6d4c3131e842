package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadKeyShape(t *testing.T) {
	key := UploadKey(KindPDF, "user-1", "lecture 1.pdf")
	require.True(t, strings.HasPrefix(key, "pdfs/user-1/"))
	require.True(t, strings.HasSuffix(key, "_lecture 1.pdf"))
}

func TestProfilePicKeyIsStablePerUser(t *testing.T) {
	key := ProfilePicKey("user-1")
	require.Equal(t, "profilePics/user-1", key)
	require.Equal(t, key, ProfilePicKey("user-1"), "re-upload must hit the same key")
}

func TestParseKeyDownloadURL(t *testing.T) {
	key, err := ParseKey("https://f002.backblazeb2.com/file/studyshelf-files/pdfs/u1/1693000000000_lecture1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdfs/u1/1693000000000_lecture1.pdf", key)
}

func TestParseKeySignedDownloadURL(t *testing.T) {
	key, err := ParseKey("https://f002.backblazeb2.com/file/studyshelf-files/docx/u1/1_notes.docx?Authorization=token123")
	require.NoError(t, err)
	assert.Equal(t, "docx/u1/1_notes.docx", key)
}

func TestParseKeyEscapedPath(t *testing.T) {
	key, err := ParseKey("https://f002.backblazeb2.com/file/studyshelf-files/pdfs/u1/1_lecture%201.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdfs/u1/1_lecture 1.pdf", key)
}

func TestParseKeyRawScheme(t *testing.T) {
	key, err := ParseKey("b2://studyshelf-files/pdfs/u1/1_lecture1.pdf")
	require.NoError(t, err)
	assert.Equal(t, "pdfs/u1/1_lecture1.pdf", key)
}

func TestParseKeyUnparseable(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a url",
		"b2://bucket-only",
		"https://example.com/download/other/shape.pdf",
		"ftp://host/file/bucket/key.pdf",
	} {
		_, err := ParseKey(raw)
		assert.ErrorIs(t, err, ErrUnparseableURL, "input: %q", raw)
	}
}
