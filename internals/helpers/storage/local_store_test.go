package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"

	"tamilvalam_backend/internals/configs"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func memUpload(name string, data []byte) Upload {
	return Upload{
		FieldName: "images",
		Filename:  name,
		Size:      int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func testUploadConfig(dir string) configs.UploadConfig {
	cfg := configs.DefaultConfig().Upload
	cfg.Dir = dir
	return cfg
}

func TestFilename(t *testing.T) {
	is := is.New(t)
	s := NewLocalStore(testUploadConfig(t.TempDir()))
	s.now = func() time.Time { return time.UnixMilli(1700000000123) }
	s.random = func() int { return 123456789 }

	is.Equal(s.Filename("images", "Photo.JPG"), "images-1700000000123-123456789.jpg")
	is.Equal(s.Filename("images", "noext"), "images-1700000000123-123456789")
}

func TestFilenameShape(t *testing.T) {
	is := is.New(t)
	s := NewLocalStore(testUploadConfig(t.TempDir()))
	re := regexp.MustCompile(`^images-\d{13}-\d{9}\.png$`)
	for i := 0; i < 50; i++ {
		is.True(re.MatchString(s.Filename("images", "a.PNG")))
	}
}

func TestSaveAndRemove(t *testing.T) {
	is := is.New(t)
	dir := filepath.Join(t.TempDir(), "initiatives")
	s := NewLocalStore(testUploadConfig(dir))
	is.NoErr(s.EnsureDir())
	is.NoErr(s.EnsureDir()) // idempotent

	data := pngBytes(t, 40, 20)
	f, err := s.Save(context.Background(), memUpload("a.png", data))
	is.NoErr(err)
	is.True(strings.HasPrefix(f.URL, "/uploads/initiatives/images-"))
	is.Equal(f.Size, int64(len(data)))
	is.Equal(f.Width, 40)
	is.Equal(f.Height, 20)
	is.Equal(f.ThumbnailURL, nil)

	onDisk, err := os.ReadFile(f.DiskPath)
	is.NoErr(err)
	is.Equal(onDisk, data)

	is.NoErr(s.Remove(f.URL))
	_, err = os.Stat(f.DiskPath)
	is.True(errors.Is(err, fs.ErrNotExist))

	err = s.Remove(f.URL)
	is.True(errors.Is(err, fs.ErrNotExist))
}

func TestSaveCollisionRetries(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()
	s := NewLocalStore(testUploadConfig(dir))
	s.now = func() time.Time { return time.UnixMilli(1) }
	seq := []int{111111111, 111111111, 222222222}
	s.random = func() int { v := seq[0]; seq = seq[1:]; return v }

	is.NoErr(os.WriteFile(filepath.Join(dir, "images-1-111111111.png"), []byte("taken"), 0o644))

	f, err := s.Save(context.Background(), memUpload("x.png", pngBytes(t, 2, 2)))
	is.NoErr(err)
	is.Equal(f.Name, "images-1-222222222.png")

	taken, err := os.ReadFile(filepath.Join(dir, "images-1-111111111.png"))
	is.NoErr(err)
	is.Equal(string(taken), "taken")
}

func TestSaveThumbnail(t *testing.T) {
	is := is.New(t)
	cfg := testUploadConfig(t.TempDir())
	cfg.ThumbnailWidth = 10
	s := NewLocalStore(cfg)
	is.NoErr(s.EnsureDir())

	f, err := s.Save(context.Background(), memUpload("big.png", pngBytes(t, 40, 20)))
	is.NoErr(err)
	is.True(f.ThumbnailURL != nil)
	is.True(strings.HasPrefix(*f.ThumbnailURL, "/uploads/initiatives/thumbs/"))

	thumbPath := filepath.Join(cfg.Dir, thumbDir, thumbName(f.Name))
	tf, err := os.Open(thumbPath)
	is.NoErr(err)
	cfgImg, _, err := image.DecodeConfig(tf)
	tf.Close()
	is.NoErr(err)
	is.Equal(cfgImg.Width, 10)
	is.Equal(cfgImg.Height, 5)

	is.NoErr(s.Remove(f.URL))
	_, err = os.Stat(thumbPath)
	is.True(errors.Is(err, fs.ErrNotExist))
}

func TestSaveNonImageKeepsZeroDimensions(t *testing.T) {
	is := is.New(t)
	s := NewLocalStore(testUploadConfig(t.TempDir()))
	f, err := s.Save(context.Background(), memUpload("notes.txt", []byte("hello")))
	is.NoErr(err)
	is.Equal(f.Width, 0)
	is.Equal(f.Height, 0)
}

func TestSaveCanceledContext(t *testing.T) {
	is := is.New(t)
	s := NewLocalStore(testUploadConfig(t.TempDir()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Save(ctx, memUpload("a.png", pngBytes(t, 1, 1)))
	is.True(errors.Is(err, context.Canceled))
}

func TestRemoveStaysInsideDir(t *testing.T) {
	is := is.New(t)
	root := t.TempDir()
	dir := filepath.Join(root, "initiatives")
	s := NewLocalStore(testUploadConfig(dir))
	is.NoErr(s.EnsureDir())

	outside := filepath.Join(root, "secret.txt")
	is.NoErr(os.WriteFile(outside, []byte("x"), 0o644))

	err := s.Remove("/uploads/initiatives/../secret.txt")
	is.True(errors.Is(err, fs.ErrNotExist))
	_, err = os.Stat(outside)
	is.NoErr(err)
}
