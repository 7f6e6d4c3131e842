package storage

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Key prefixes by upload kind.
const (
	KindPDF        = "pdfs"
	KindDocx       = "docx"
	KindProfilePic = "profilePics"
)

var ErrUnparseableURL = errors.New("storage: cannot derive key from url")

// UploadKey builds the storage key for a fresh upload:
// {kind}/{userID}/{unix-ms}_{filename}.
func UploadKey(kind, userID, filename string) string {
	return fmt.Sprintf("%s/%s/%d_%s", kind, userID, time.Now().UnixMilli(), filename)
}

// ProfilePicKey is stable per user so a new upload replaces the old picture.
func ProfilePicKey(userID string) string {
	return KindProfilePic + "/" + userID
}

// ParseKey derives the storage key from a previously stored URL. Two shapes
// are in circulation: the public download URL
// https://<host>/file/<bucket>/<key> (possibly signed with query params)
// and the raw scheme b2://<bucket>/<key>.
func ParseKey(raw string) (string, error) {
	if strings.HasPrefix(raw, "b2://") {
		rest := strings.TrimPrefix(raw, "b2://")
		_, key, found := strings.Cut(rest, "/")
		if !found || key == "" {
			return "", fmt.Errorf("%w: %s", ErrUnparseableURL, raw)
		}
		return key, nil
	}

	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", fmt.Errorf("%w: %s", ErrUnparseableURL, raw)
	}
	// path: /file/<bucket>/<key...>
	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 3)
	if len(parts) != 3 || parts[0] != "file" || parts[2] == "" {
		return "", fmt.Errorf("%w: %s", ErrUnparseableURL, raw)
	}
	key, err := url.PathUnescape(parts[2])
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnparseableURL, raw)
	}
	return key, nil
}
