// file: internals/helpers/storage/image.go
package storage

import (
	"image"
	"os"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// decodeFile returns nil when the file is not a decodable image. The webp
// package registers its decoder with image, so WebP uploads decode here too.
func decodeFile(path string) image.Image {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil
	}
	return img
}

// writeThumbnail scales img to width (keeping aspect) and saves it as lossy WebP.
func writeThumbnail(img image.Image, width int, dst string) error {
	if img.Bounds().Dx() > width {
		img = imaging.Resize(img, width, 0, imaging.Lanczos)
	}
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if err := webp.Encode(f, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return err
	}
	return f.Close()
}
