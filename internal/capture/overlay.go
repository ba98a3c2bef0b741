package capture

import (
	"fmt"
	"image"
	"image/color"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/detector"
)

var (
	connectionColor = color.RGBA{R: 0, G: 255, B: 0, A: 0}
	landmarkColor   = color.RGBA{R: 255, G: 0, B: 0, A: 0}
)

const (
	connectionThickness = 3
	landmarkRadius      = 4
)

// Overlay is the drawing surface for detected hands. It keeps only the most
// recent annotated frame, JPEG-encoded.
type Overlay struct {
	mu     sync.RWMutex
	width  int
	height int
	latest []byte
}

// NewOverlay creates an empty overlay surface.
func NewOverlay() *Overlay {
	return &Overlay{}
}

// Resize sets the surface size, normally to the camera's frame size.
// Non-positive dimensions leave frames at their native size.
func (o *Overlay) Resize(width, height int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.width = width
	o.height = height
}

// Size returns the configured surface size.
func (o *Overlay) Size() (int, int) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.width, o.height
}

// Render draws hands on a copy of frame and stores it as the latest image.
// The source frame is not modified.
func (o *Overlay) Render(frame *gocv.Mat, hands []detector.HandLandmarks) error {
	if frame == nil || frame.Empty() {
		return nil
	}

	annotated := gocv.NewMat()
	defer annotated.Close()

	w, h := o.Size()
	if w > 0 && h > 0 && (frame.Cols() != w || frame.Rows() != h) {
		gocv.Resize(*frame, &annotated, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
	} else {
		frame.CopyTo(&annotated)
	}

	DrawHands(&annotated, hands)

	buf, err := gocv.IMEncode(".jpg", annotated)
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	defer buf.Close()

	img := append([]byte(nil), buf.GetBytes()...)

	o.mu.Lock()
	o.latest = img
	o.mu.Unlock()
	return nil
}

// Latest returns the most recent annotated JPEG, or nil if the surface is clear.
func (o *Overlay) Latest() []byte {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.latest
}

// Clear drops the current image.
func (o *Overlay) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.latest = nil
}

// DrawHands draws the skeleton connections and landmark points of each hand
// onto img. Landmark coordinates are fractions of the image size.
func DrawHands(img *gocv.Mat, hands []detector.HandLandmarks) {
	cols, rows := img.Cols(), img.Rows()
	toPixel := func(p detector.Point3D) image.Point {
		return image.Pt(int(p.X*float64(cols)), int(p.Y*float64(rows)))
	}

	for i := range hands {
		points := hands[i].Points
		for _, c := range detector.Connections {
			gocv.Line(img, toPixel(points[c[0]]), toPixel(points[c[1]]), connectionColor, connectionThickness)
		}
		for _, p := range points {
			gocv.Circle(img, toPixel(p), landmarkRadius, landmarkColor, -1)
		}
	}
}
