package tracker

import (
	"context"
	"image"
)

// Landmark indices of the 21-point hand model
const (
	Wrist           = 0
	ThumbTip        = 4
	IndexFingerTip  = 8
	MiddleFingerTip = 12
	RingFingerTip   = 16
	PinkyTip        = 20

	NumLandmarks = 21
)

// Landmark is a keypoint in normalised image coordinates (0-1 across the frame)
type Landmark struct {
	X, Y, Z float64
}

// Hand is one detected hand
type Hand struct {
	Landmarks  [NumLandmarks]Landmark
	Handedness string // "Left" or "Right" as reported by the model
	Score      float64
}

// Connections lists the landmark pairs that form the hand skeleton
var Connections = [][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 4}, // thumb
	{0, 5}, {5, 6}, {6, 7}, {7, 8}, // index
	{5, 9}, {9, 10}, {10, 11}, {11, 12}, // middle
	{9, 13}, {13, 14}, {14, 15}, {15, 16}, // ring
	{13, 17}, {0, 17}, {17, 18}, {18, 19}, {19, 20}, // pinky and palm
}

// Detector finds hands in a frame
type Detector interface {
	// Detect returns the hands found in img, empty when there are none.
	Detect(ctx context.Context, img *image.RGBA) ([]Hand, error)
	Close() error
}

// Point converts a landmark to pixel coordinates in a w x h frame.
// Values are truncated toward zero.
func (l Landmark) Point(w, h int) image.Point {
	return image.Point{X: int(l.X * float64(w)), Y: int(l.Y * float64(h))}
}

// Fingertip returns the index fingertip of a hand in pixel coordinates
func Fingertip(h Hand, w, ht int) image.Point {
	return h.Landmarks[IndexFingerTip].Point(w, ht)
}

// None is a detector that never finds a hand
type None struct{}

func (None) Detect(ctx context.Context, img *image.RGBA) ([]Hand, error) { return nil, nil }
func (None) Close() error                                                { return nil }
