package media

import (
	"image"

	"github.com/gen2brain/go-fitz"
)

// Source supplies still frames by index. A document, an image directory or a
// generator can all act as the frame store behind a SequenceEngine.
type Source interface {
	FrameCount() int
	FrameSize(index int) (width, height int, err error)
	Frame(index int) (image.Image, error)
	Close() error
}

// FitzSource treats the pages of a PDF as a frame sequence.
type FitzSource struct {
	doc  *fitz.Document
	path string
}

func NewFitzSource(path string) (*FitzSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return &FitzSource{doc: doc, path: path}, nil
}

func (f *FitzSource) FrameCount() int {
	return f.doc.NumPage()
}

func (f *FitzSource) FrameSize(index int) (int, int, error) {
	rect, err := f.doc.Bound(index)
	if err != nil {
		return 0, 0, err
	}
	return rect.Dx(), rect.Dy(), nil
}

func (f *FitzSource) Frame(index int) (image.Image, error) {
	return f.doc.Image(index)
}

func (f *FitzSource) Close() error {
	return f.doc.Close()
}
