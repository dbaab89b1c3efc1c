// Package main - yolo.go
//
// Object detector collaborator.
//
// ObjectDetector returns bounding boxes with class labels and confidences
// for one frame. YoloDetector implements it with an ONNX model through the
// OpenCV DNN module (640x640 letterboxed input, [1, 4+classes, anchors]
// output layout, non-maximum suppression on the surviving candidates).
package main

import (
	"image"
	"sort"

	"gocv.io/x/gocv"
)

const (
	yoloInputSize    = 640
	yoloNMSThreshold = 0.45
)

// ObjectDetector locates class instances in a frame.
type ObjectDetector interface {
	// Detect returns all boxes of the given class label, unordered.
	Detect(frame *image.RGBA, label int) ([]Box, error)
}

// YoloDetector runs an ONNX detection model via gocv.
type YoloDetector struct {
	net        gocv.Net
	confidence float64
	classes    int
}

// NewYoloDetector loads the model at path. classes is the model's class
// count; confidence is the minimum score kept.
func NewYoloDetector(path string, classes int, confidence float64) (*YoloDetector, error) {
	net := gocv.ReadNetFromONNX(path)
	if net.Empty() {
		return nil, &ConfigError{Msg: "cannot load detection model at " + path}
	}
	return &YoloDetector{net: net, confidence: confidence, classes: classes}, nil
}

// Close releases the network.
func (d *YoloDetector) Close() error {
	return d.net.Close()
}

// Detect runs one inference pass and returns the boxes of the given label
// in frame coordinates.
func (d *YoloDetector) Detect(frame *image.RGBA, label int) ([]Box, error) {
	src, err := gocv.ImageToMatRGB(frame)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	blob := gocv.BlobFromImage(src, 1.0/255.0, image.Pt(yoloInputSize, yoloInputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()
	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	data, err := output.DataPtrFloat32()
	if err != nil {
		return nil, err
	}

	// Output rows are [cx, cy, w, h, class scores...] across anchors.
	rows := 4 + d.classes
	anchors := len(data) / rows
	scaleX := float64(frame.Bounds().Dx()) / yoloInputSize
	scaleY := float64(frame.Bounds().Dy()) / yoloInputSize

	var rects []image.Rectangle
	var scores []float32
	for a := 0; a < anchors; a++ {
		score := data[(4+label)*anchors+a]
		if float64(score) < d.confidence {
			continue
		}
		cx := float64(data[0*anchors+a]) * scaleX
		cy := float64(data[1*anchors+a]) * scaleY
		w := float64(data[2*anchors+a]) * scaleX
		h := float64(data[3*anchors+a]) * scaleY
		rects = append(rects, image.Rect(int(cx-w/2), int(cy-h/2), int(cx+w/2), int(cy+h/2)))
		scores = append(scores, score)
	}
	if len(rects) == 0 {
		return nil, nil
	}

	keep := gocv.NMSBoxes(rects, scores, float32(d.confidence), yoloNMSThreshold)
	boxes := make([]Box, 0, len(keep))
	for _, i := range keep {
		r := rects[i]
		boxes = append(boxes, Box{
			X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy(),
			Label:      label,
			Confidence: float64(scores[i]),
		})
	}
	return boxes, nil
}

// topByConfidence sorts boxes descending by confidence and returns the
// first, or nil for an empty slice. Sorting is stable so detector order
// breaks ties.
func topByConfidence(boxes []Box) *Box {
	if len(boxes) == 0 {
		return nil
	}
	sorted := make([]Box, len(boxes))
	copy(sorted, boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})
	return &sorted[0]
}
