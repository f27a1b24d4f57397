// Package media holds image processing for proof uploads.
package media

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	thumbnailMaxWidth  = 480
	thumbnailMaxHeight = 480
	thumbnailQuality   = 80
)

// WebPThumbnailer renders bounded webp previews of uploaded proof images.
// It accepts anything imaging can sniff (jpeg, png, gif, tiff, bmp) plus
// webp itself.
type WebPThumbnailer struct{}

func NewWebPThumbnailer() *WebPThumbnailer {
	return &WebPThumbnailer{}
}

func (t *WebPThumbnailer) Thumbnail(data []byte) ([]byte, error) {
	img, err := decode(data)
	if err != nil {
		return nil, err
	}

	thumb := imaging.Fit(img, thumbnailMaxWidth, thumbnailMaxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	err = webp.Encode(&buf, thumb, &webp.Options{Quality: thumbnailQuality})
	if err != nil {
		return nil, fmt.Errorf("webp encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	// imaging does not know webp
	if webpImg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return webpImg, nil
	}
	return nil, fmt.Errorf("unsupported image format: %w", err)
}
