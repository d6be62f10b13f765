package service

import (
	"image"
	"image/jpeg"
	"os"
	"path/filepath"

	// decoders
	_ "image/gif"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	thumbMaxDim  = 300
	thumbQuality = 85
)

// MakeThumbnail derives a JPEG thumbnail fitting a 300x300 box and
// writes it into thumbDir as thumb_<filename>.jpg. Returns the
// thumbnail's basename.
func MakeThumbnail(srcPath, filename, thumbDir string) (string, error) {
	f, err := os.Open(srcPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	src, _, err := image.Decode(f)
	if err != nil {
		return "", err
	}

	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return "", os.ErrInvalid
	}

	nw, nh := w, h
	if w >= h {
		if w > thumbMaxDim {
			nw = thumbMaxDim
			nh = h * thumbMaxDim / w
		}
	} else {
		if h > thumbMaxDim {
			nh = thumbMaxDim
			nw = w * thumbMaxDim / h
		}
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)

	if err := os.MkdirAll(thumbDir, 0o755); err != nil {
		return "", err
	}

	name := "thumb_" + filename + ".jpg"
	out, err := os.Create(filepath.Join(thumbDir, name))
	if err != nil {
		return "", err
	}
	defer out.Close()

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return "", err
	}
	return name, nil
}
