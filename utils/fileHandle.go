package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// UploadDir is where files land when no media service is configured. It is served
// under /uploads.
const UploadDir = "./public/uploads"

// MaxUploadSize bounds a single uploaded file.
const MaxUploadSize = 50 << 20

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
	".mp3": true, ".wav": true, ".m4a": true, ".ogg": true,
	".mp4": true, ".webm": true, ".mov": true,
	".pdf": true,
}

// CheckUpload rejects files that are too large or of an unsupported type.
func CheckUpload(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file must be at most %d MB", MaxUploadSize>>20)
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(file.Filename))] {
		return fmt.Errorf("file type %q is not supported", filepath.Ext(file.Filename))
	}
	return nil
}

// SaveUploadedFile stores file under destDir with a random name and returns that name.
func SaveUploadedFile(file *multipart.FileHeader, destDir string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}

	newFilename := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))
	dst, err := os.Create(filepath.Join(destDir, newFilename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return newFilename, nil
}

// GetFileURL is the public path of a file saved by SaveUploadedFile.
func GetFileURL(filename string) string {
	if filename == "" {
		return ""
	}
	return "/uploads/" + filename
}
