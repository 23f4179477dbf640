package uploads

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

const previewWidth = 256

// Preview is a revocable local preview resource held for a queued file.
// Release must be called on every path that removes the file from the
// queue; an unreleased preview leaks an OS-level resource.
type Preview interface {
	Path() string
	Release() error
}

// PreviewFactory creates the preview resource for a file. Exactly one
// preview is created per unique queue key.
type PreviewFactory func(f File) (Preview, error)

type thumbnail struct {
	path string
}

func (t *thumbnail) Path() string { return t.path }

func (t *thumbnail) Release() error {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// ThumbnailPreviews returns a factory that renders a downscaled thumbnail
// of the source image into dir. The thumbnail file is the revocable
// resource; Release deletes it.
func ThumbnailPreviews(dir string) PreviewFactory {
	return func(f File) (Preview, error) {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", f.Name, err)
		}
		defer rc.Close()

		img, err := imaging.Decode(rc, imaging.AutoOrientation(true))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.Name, err)
		}

		thumb := imaging.Resize(img, previewWidth, 0, imaging.Lanczos)

		out, err := os.CreateTemp(dir, "preview-*.jpg")
		if err != nil {
			return nil, fmt.Errorf("create preview: %w", err)
		}

		if err := imaging.Encode(out, thumb, imaging.JPEG); err != nil {
			out.Close()
			os.Remove(out.Name())
			return nil, fmt.Errorf("encode preview %s: %w", f.Name, err)
		}

		if err := out.Close(); err != nil {
			os.Remove(out.Name())
			return nil, err
		}

		return &thumbnail{path: filepath.Clean(out.Name())}, nil
	}
}
