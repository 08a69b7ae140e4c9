package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/kbinani/screenshot"
)

// Grabber is the subset of the screen-grab library the library backend uses.
type Grabber interface {
	NumActiveDisplays() int
	GetDisplayBounds(displayIndex int) image.Rectangle
	CaptureRect(rect image.Rectangle) (*image.RGBA, error)
}

type screenGrabber struct{}

func (screenGrabber) NumActiveDisplays() int { return screenshot.NumActiveDisplays() }
func (screenGrabber) GetDisplayBounds(i int) image.Rectangle { return screenshot.GetDisplayBounds(i) }
func (screenGrabber) CaptureRect(r image.Rectangle) (*image.RGBA, error) {
	return screenshot.CaptureRect(r)
}

// LibraryBackend grabs the primary display in-process and encodes it as PNG.
// Platform coverage is whatever the grab library supports.
type LibraryBackend struct {
	grabber Grabber
}

// NewLibraryBackend creates a library backend. A nil grabber uses kbinani/screenshot.
func NewLibraryBackend(g Grabber) *LibraryBackend {
	if g == nil {
		g = screenGrabber{}
	}
	return &LibraryBackend{grabber: g}
}

func (b *LibraryBackend) Name() string { return BackendLibrary }

func (b *LibraryBackend) Capture(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return unexpected(err)
	}
	if b.grabber.NumActiveDisplays() <= 0 {
		return externalFailure("no active displays found", nil)
	}

	img, err := b.grabber.CaptureRect(b.grabber.GetDisplayBounds(0))
	if err != nil {
		return externalFailure(err.Error(), err)
	}

	f, err := os.Create(path)
	if err != nil {
		return externalFailure(err.Error(), err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		os.Remove(path)
		return externalFailure(fmt.Sprintf("encode png: %v", err), err)
	}
	if err := f.Close(); err != nil {
		return externalFailure(err.Error(), err)
	}
	return nil
}
