// file: internals/helpers/storage/validate.go
package storage

import (
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2"

	"tamilvalam_backend/internals/configs"
)

// sniffLimit covers every signature mimetype checks for image formats.
const sniffLimit = 3072

// DetectMIME sniffs the leading bytes of an upload.
func DetectMIME(u Upload) (string, error) {
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	head, err := io.ReadAll(io.LimitReader(rc, sniffLimit))
	if err != nil {
		return "", err
	}
	return mimetype.Detect(head).String(), nil
}

// ValidateUploads enforces count, size and sniffed MIME type. Failures are
// *fiber.Error with status 400 (413 for oversize files).
func ValidateUploads(files []Upload, cfg configs.UploadConfig) error {
	if len(files) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload at least one image file")
	}
	if len(files) > cfg.MaxFiles {
		return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("Too many files; at most %d images per upload", cfg.MaxFiles))
	}
	for i := range files {
		f := &files[i]
		if f.Size > cfg.MaxFileSize {
			return fiber.NewError(fiber.StatusRequestEntityTooLarge,
				fmt.Sprintf("%s exceeds the %d MB limit", f.Filename, cfg.MaxFileSize/(1024*1024)))
		}
		mt, err := DetectMIME(*f)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Unable to read "+f.Filename)
		}
		if !allowedMIME(mt, cfg.AllowedMIMETypes) {
			return fiber.NewError(fiber.StatusBadRequest, "Only image files are allowed ("+f.Filename+")")
		}
		f.ContentType = mt
	}
	return nil
}

func allowedMIME(mt string, allowed []string) bool {
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	mt = strings.ToLower(strings.TrimSpace(mt))
	if len(allowed) == 0 {
		return strings.HasPrefix(mt, "image/")
	}
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), mt) {
			return true
		}
	}
	return false
}
