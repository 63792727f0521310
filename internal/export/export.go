package export

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/swirl"
)

// ManifestName is the file name of the manifest inside an export directory.
const ManifestName = "manifest.yaml"

// ErrEmptySequence is returned when a sequence has no frames to write.
var ErrEmptySequence = errors.New("export: sequence has no frames")

// Manifest describes an exported frame sequence.
type Manifest struct {
	Layout string  `yaml:"layout"`
	Bitmap string  `yaml:"bitmap"`
	Timing Timing  `yaml:"timing"`
	Frames []Frame `yaml:"frames"`
	Dimmed []Frame `yaml:"dimmed,omitempty"`
}

// Timing is the manifest form of swirl.Timing.
type Timing struct {
	Duration           string `yaml:"duration"`
	Curve              string `yaml:"curve"`
	Mode               string `yaml:"mode"`
	Fill               string `yaml:"fill"`
	BeginDelay         string `yaml:"begin_delay"`
	RemoveOnCompletion bool   `yaml:"remove_on_completion"`
}

// Frame is one exported image.
type Frame struct {
	File string `yaml:"file"`
	Hash string `yaml:"hash"`
}

func timingOf(t swirl.Timing) Timing {
	return Timing{
		Duration:           t.Duration.String(),
		Curve:              t.Curve,
		Mode:               t.Mode.String(),
		Fill:               t.Fill.String(),
		BeginDelay:         t.BeginDelay.String(),
		RemoveOnCompletion: t.RemoveOnCompletion,
	}
}

// Upscale scales img to layout with a Catmull-Rom filter. An empty
// layout, or one equal to the bitmap size, returns the bitmap itself.
func Upscale(img *swirl.Image, layout swirl.Size) image.Image {
	if layout.Empty() || layout == img.Size() {
		return img
	}
	dst := image.NewRGBA(image.Rect(0, 0, layout.Width, layout.Height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// WritePNG writes img scaled to layout as a PNG file.
func WritePNG(path string, img *swirl.Image, layout swirl.Size) error {
	if layout.Empty() || layout == img.Size() {
		return img.SavePNG(path)
	}

	f, err := os.Create(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return err
	}
	if err := png.Encode(f, Upscale(img, layout)); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// WriteSequence writes every frame of seq into dir, creating it if
// needed, followed by the manifest. Frames are scaled to layout; an
// empty layout keeps the bitmap size.
func WriteSequence(dir string, seq *swirl.FrameSequence, layout swirl.Size) (*Manifest, error) {
	if seq == nil || seq.Len() == 0 {
		return nil, ErrEmptySequence
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}

	bitmap := seq.Final().Size()
	if layout.Empty() {
		layout = bitmap
	}
	m := &Manifest{
		Layout: layout.String(),
		Bitmap: bitmap.String(),
		Timing: timingOf(seq.Timing),
	}

	var err error
	if m.Frames, err = writeFrames(dir, "frame", seq.Frames, layout); err != nil {
		return nil, err
	}
	if seq.Dimmed != nil {
		if m.Dimmed, err = writeFrames(dir, "dimmed", seq.Dimmed, layout); err != nil {
			return nil, err
		}
	}

	if err := WriteManifest(filepath.Join(dir, ManifestName), m); err != nil {
		return nil, err
	}
	swirl.Logger().Info("export: wrote sequence",
		"dir", dir, "frames", len(m.Frames), "dimmed", len(m.Dimmed), "layout", m.Layout)
	return m, nil
}

func writeFrames(dir, prefix string, frames []*swirl.Image, layout swirl.Size) ([]Frame, error) {
	out := make([]Frame, 0, len(frames))
	for i, img := range frames {
		name := fmt.Sprintf("%s_%03d.png", prefix, i)
		if err := WritePNG(filepath.Join(dir, name), img, layout); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		out = append(out, Frame{File: name, Hash: img.Hash()})
	}
	return out, nil
}

// WriteManifest encodes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // manifest is not secret
		return fmt.Errorf("write manifest: %w", err)
	}
	return nil
}

// ReadManifest decodes the manifest at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided intentionally
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
