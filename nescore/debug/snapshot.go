package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/valerio/go-nescore/nescore/video"
)

// FrameImage converts a frame of palette indices to an RGBA image using the
// master palette.
func FrameImage(frame *video.FrameBuffer) *image.RGBA {
	w, h := int(frame.Width()), int(frame.Height())
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := video.Palette[frame.GetPixel(uint(x), uint(y))&0x3F]
			img.SetRGBA(x, y, color.RGBA{R: c.R(), G: c.G(), B: c.B(), A: 0xFF})
		}
	}

	return img
}

// WriteFramePNG encodes a frame as PNG.
func WriteFramePNG(w io.Writer, frame *video.FrameBuffer) error {
	if err := png.Encode(w, FrameImage(frame)); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// TakeSnapshot saves the frame in the working directory, logging failures.
func TakeSnapshot(frame *video.FrameBuffer) {
	if frame == nil {
		slog.Warn("No frame data available for snapshot")
		return
	}

	if _, err := SaveFramePNGToDir(frame, "nescore_snapshot", ""); err != nil {
		slog.Error("Failed to save snapshot", "error", err)
	}
}

// SaveFramePNGToDir saves a frame as a timestamped PNG in directory, or the
// working directory when empty, and returns the file path.
func SaveFramePNGToDir(frame *video.FrameBuffer, baseName, directory string) (string, error) {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.png", baseName, timestamp)
	return SaveFramePNG(frame, filepath.Join(directory, filename))
}

// SaveFramePNG writes a frame to path.
func SaveFramePNG(frame *video.FrameBuffer, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", path, err)
	}
	defer file.Close()

	if err := WriteFramePNG(file, frame); err != nil {
		return "", err
	}

	slog.Info("Snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", frame.Width(), frame.Height()), "format", "PNG")
	return path, nil
}
