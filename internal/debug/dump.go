// Package debug renders engine state to images for inspection.
package debug

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"
)

// Dumper writes debug images to a directory.
type Dumper struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewDumper creates a dumper writing <prefix>_<name>_<timestamp>.png files
// into outputDir. An empty outputDir means the working directory.
func NewDumper(outputDir, prefix string) *Dumper {
	return &Dumper{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// SetOutputDir sets the output directory.
func (d *Dumper) SetOutputDir(dir string) {
	d.outputDir = dir
}

// Filename returns the path the next image called name would be written to.
func (d *Dumper) Filename(name string) string {
	timestamp := d.now().Format("2006-01-02_15-04-05")
	filename := fmt.Sprintf("%s_%s_%s.png", d.prefix, name, timestamp)
	if d.outputDir != "" {
		filename = filepath.Join(d.outputDir, filename)
	}
	return filename
}

// Write encodes img as PNG and returns the file path.
func (d *Dumper) Write(name string, img image.Image) (string, error) {
	if d.outputDir != "" {
		if err := os.MkdirAll(d.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := d.Filename(name)
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}
