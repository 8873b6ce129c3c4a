package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"

	"github.com/google/uuid"
)

// Upload subdirectories.
const (
	DirAvatars = "avatars"
	DirItems   = "items"
	DirAds     = "ads"
	DirStories = "stories"
)

var (
	ErrNotImage = errors.New("only jpeg, png, gif, bmp, tiff and webp images are accepted")
	ErrTooLarge = errors.New("file exceeds the upload size limit")
)

// SecureMIMETypesExtension maps accepted image types to the extension they are stored with.
var SecureMIMETypesExtension = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/gif":  "gif",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

// Uploader stores a file under dir and returns the URL it is served from.
type Uploader interface {
	Save(ctx context.Context, dir, name, contentType string, content []byte) (string, error)
}

// Default is the uploader configured at start up.
var Default Uploader

// CheckImage sniffs content and returns its MIME type and extension when it is an accepted image.
func CheckImage(content []byte) (string, string, error) {
	mimeType := http.DetectContentType(content)
	ext, ok := SecureMIMETypesExtension[mimeType]
	if !ok {
		return mimeType, "", ErrNotImage
	}
	return mimeType, ext, nil
}

// SaveImage reads a multipart file of at most maxBytes, checks it is an image and stores it
// under dir with a random name.
func SaveImage(ctx context.Context, u Uploader, dir string, fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if u == nil {
		return "", errors.New("no storage configured")
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", ErrTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("unable to open upload: %w", err)
	}
	defer f.Close()

	content, err := io.ReadAll(NewMaxSizeReader(f, maxBytes))
	if err != nil {
		var limitErr *ReachLimitError
		if errors.As(err, &limitErr) {
			return "", ErrTooLarge
		}
		return "", fmt.Errorf("unable to read upload: %w", err)
	}

	mimeType, ext, err := CheckImage(content)
	if err != nil {
		return "", err
	}
	name := uuid.NewString() + "." + ext
	return u.Save(ctx, dir, name, mimeType, content)
}

func objectKey(dir, name string) string {
	return path.Join(dir, name)
}
