package storage

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/matryer/is"
)

func fiberCode(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return 0
}

func TestValidateUploads(t *testing.T) {
	cfg := testUploadConfig(t.TempDir())
	img := pngBytes(t, 4, 4)

	t.Run("empty", func(t *testing.T) {
		is := is.New(t)
		err := ValidateUploads(nil, cfg)
		is.Equal(fiberCode(err), fiber.StatusBadRequest)
		is.Equal(err.Error(), "Please upload at least one image file")
	})

	t.Run("ok sets sniffed type", func(t *testing.T) {
		is := is.New(t)
		files := []Upload{memUpload("a.jpg", img)}
		is.NoErr(ValidateUploads(files, cfg))
		is.Equal(files[0].ContentType, "image/png")
	})

	t.Run("too many", func(t *testing.T) {
		is := is.New(t)
		files := make([]Upload, cfg.MaxFiles+1)
		for i := range files {
			files[i] = memUpload("a.png", img)
		}
		is.Equal(fiberCode(ValidateUploads(files, cfg)), fiber.StatusBadRequest)
	})

	t.Run("too large", func(t *testing.T) {
		is := is.New(t)
		u := memUpload("a.png", img)
		u.Size = cfg.MaxFileSize + 1
		is.Equal(fiberCode(ValidateUploads([]Upload{u}, cfg)), fiber.StatusRequestEntityTooLarge)
	})

	t.Run("not an image", func(t *testing.T) {
		is := is.New(t)
		u := memUpload("evil.png", []byte("#!/bin/sh\necho hi\n"))
		is.Equal(fiberCode(ValidateUploads([]Upload{u}, cfg)), fiber.StatusBadRequest)
	})
}
