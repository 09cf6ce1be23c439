// file: internals/helpers/storage/local_store.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"tamilvalam_backend/internals/configs"
)

const thumbDir = "thumbs"

// Store persists image files and maps them to public URLs.
type Store interface {
	EnsureDir() error
	Save(ctx context.Context, u Upload) (*StoredFile, error)
	Remove(publicURL string) error
}

type StoredFile struct {
	Name         string
	DiskPath     string
	URL          string
	ThumbnailURL *string
	Size         int64
	Width        int
	Height       int
}

// LocalStore keeps files in one directory on local disk.
type LocalStore struct {
	dir            string
	publicPrefix   string
	thumbnailWidth int

	now    func() time.Time
	random func() int
}

func NewLocalStore(cfg configs.UploadConfig) *LocalStore {
	return &LocalStore{
		dir:            cfg.Dir,
		publicPrefix:   strings.TrimRight(cfg.PublicPrefix, "/"),
		thumbnailWidth: cfg.ThumbnailWidth,
		now:            time.Now,
		random:         func() int { return 100000000 + rand.Intn(900000000) },
	}
}

func (s *LocalStore) Dir() string { return s.dir }

func (s *LocalStore) EnsureDir() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if s.thumbnailWidth > 0 {
		if err := os.MkdirAll(filepath.Join(s.dir, thumbDir), 0o755); err != nil {
			return fmt.Errorf("create thumbnail dir: %w", err)
		}
	}
	return nil
}

// Filename builds "<field>-<unix ms>-<9 digits><ext>".
func (s *LocalStore) Filename(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return field + "-" + strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + strconv.Itoa(s.random()) + ext
}

func (s *LocalStore) Save(ctx context.Context, u Upload) (*StoredFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", u.Filename, err)
	}
	defer src.Close()

	field := u.FieldName
	if field == "" {
		field = "file"
	}

	var (
		name string
		dst  *os.File
	)
	for attempt := 0; attempt < 3; attempt++ {
		name = s.Filename(field, u.Filename)
		dst, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if !errors.Is(err, fs.ErrExist) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", name, err)
	}

	diskPath := filepath.Join(s.dir, name)
	n, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(diskPath)
		return nil, fmt.Errorf("write %s: %w", name, err)
	}

	out := &StoredFile{
		Name:     name,
		DiskPath: diskPath,
		URL:      s.URL(name),
		Size:     n,
	}

	if img := decodeFile(diskPath); img != nil {
		out.Width, out.Height = img.Bounds().Dx(), img.Bounds().Dy()
		if s.thumbnailWidth > 0 {
			thumb := thumbName(name)
			if err := writeThumbnail(img, s.thumbnailWidth, filepath.Join(s.dir, thumbDir, thumb)); err == nil {
				url := s.publicPrefix + "/" + thumbDir + "/" + thumb
				out.ThumbnailURL = &url
			}
		}
	}
	return out, nil
}

func (s *LocalStore) URL(name string) string {
	return s.publicPrefix + "/" + name
}

// Remove deletes the file behind publicURL plus its thumbnail. Only the base
// name is used so a crafted URL cannot leave the upload dir. Missing files
// surface as fs.ErrNotExist.
func (s *LocalStore) Remove(publicURL string) error {
	name := path.Base(strings.TrimSpace(publicURL))
	if name == "" || name == "." || name == "/" {
		return fmt.Errorf("invalid file path %q", publicURL)
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if s.thumbnailWidth > 0 {
		_ = os.Remove(filepath.Join(s.dir, thumbDir, thumbName(name)))
	}
	return err
}

func thumbName(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
}
