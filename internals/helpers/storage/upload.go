// file: internals/helpers/storage/upload.go
package storage

import (
	"io"
	"mime/multipart"
	"strings"
)

// Upload is one incoming file, independent of the transport that carried it.
type Upload struct {
	FieldName   string
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FromFileHeader(field string, fh *multipart.FileHeader) Upload {
	return Upload{
		FieldName:   field,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// CollectUploads returns the files posted under field, in form order.
// Parts without a filename are skipped.
func CollectUploads(form *multipart.Form, field string) []Upload {
	if form == nil || form.File == nil {
		return nil
	}
	fhs := form.File[field]
	if len(fhs) == 0 {
		// some clients post "images[]"
		fhs = form.File[field+"[]"]
	}
	out := make([]Upload, 0, len(fhs))
	for _, fh := range fhs {
		if fh == nil || strings.TrimSpace(fh.Filename) == "" {
			continue
		}
		out = append(out, FromFileHeader(field, fh))
	}
	return out
}

// UnexpectedFields lists file fields other than field, so callers can reject them.
func UnexpectedFields(form *multipart.Form, field string) []string {
	if form == nil {
		return nil
	}
	var keys []string
	for k, fhs := range form.File {
		if k == field || k == field+"[]" || len(fhs) == 0 {
			continue
		}
		keys = append(keys, k)
	}
	return keys
}
