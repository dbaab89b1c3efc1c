// Package main - ocr.go
//
// OCR collaborator.
//
// OCREngine recognizes text inside an image and returns word boxes in the
// image's own coordinates. TesseractOCR implements it with gosseract; the
// region is upscaled to a target height (bicubic) and grayscaled first,
// which makes the small stamina digits readable. Tesseract wants a file
// path, so the prepared image goes through a temp file that is removed
// right after recognition.
package main

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/nfnt/resize"
	"github.com/otiai10/gosseract"
)

// OCREngine recognizes text in an image.
type OCREngine interface {
	Recognize(img image.Image) ([]Box, error)
	Close() error
}

// TesseractOCR runs gosseract over prepared regions.
type TesseractOCR struct {
	client       *gosseract.Client
	targetHeight int
}

// NewTesseractOCR creates an OCR engine for the given tesseract language
// string (e.g. "eng+chi_sim").
func NewTesseractOCR(languages string, targetHeight int) *TesseractOCR {
	client := gosseract.NewClient()
	client.SetLanguage(languages)
	return &TesseractOCR{client: client, targetHeight: targetHeight}
}

// Recognize returns word boxes found in img, scaled back to the input
// image's coordinates.
func (t *TesseractOCR) Recognize(img image.Image) ([]Box, error) {
	prepared, scale := t.prepare(img)

	tmp, err := os.CreateTemp("", "wuwabot-ocr-*.png")
	if err != nil {
		return nil, err
	}
	name := tmp.Name()
	defer os.Remove(name)
	if err := png.Encode(tmp, prepared); err != nil {
		tmp.Close()
		return nil, err
	}
	tmp.Close()

	if err := t.client.SetImage(name); err != nil {
		return nil, err
	}
	words, err := t.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, err
	}

	boxes := make([]Box, 0, len(words))
	for _, w := range words {
		boxes = append(boxes, Box{
			X:          int(float64(w.Box.Min.X) / scale),
			Y:          int(float64(w.Box.Min.Y) / scale),
			W:          int(float64(w.Box.Dx()) / scale),
			H:          int(float64(w.Box.Dy()) / scale),
			Name:       w.Word,
			Confidence: w.Confidence,
		})
	}
	return boxes, nil
}

// Close releases the tesseract client.
func (t *TesseractOCR) Close() error {
	return t.client.Close()
}

// prepare upscales to the target height and converts to grayscale.
// Returns the scale factor applied so boxes can be mapped back.
func (t *TesseractOCR) prepare(img image.Image) (image.Image, float64) {
	b := img.Bounds()
	scale := 1.0
	if t.targetHeight > 0 && b.Dy() > 0 && b.Dy() < t.targetHeight {
		scale = float64(t.targetHeight) / float64(b.Dy())
		img = resize.Resize(uint(float64(b.Dx())*scale), uint(t.targetHeight), img, resize.Bicubic)
		b = img.Bounds()
	}
	gray := image.NewGray(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray, scale
}
