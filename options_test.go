package jigsaw

import (
	"image"
	"testing"
)

// nopRenderer returns its input unchanged.
type nopRenderer struct{}

func (nopRenderer) Crop(img image.Image, _ image.Rectangle) (image.Image, error) { return img, nil }
func (nopRenderer) Clip(img image.Image, _ *Path) (image.Image, error)           { return img, nil }
func (nopRenderer) InnerShadow(img image.Image, _ *Path, _ Shadow) (image.Image, error) {
	return img, nil
}

// TestNewDefault tests that New uses the software renderer by default.
func TestNewDefault(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New returned nil")
	}
	if _, ok := m.opts.renderer.(*SoftwareRenderer); !ok {
		t.Errorf("renderer = %T, want *SoftwareRenderer", m.opts.renderer)
	}
	if _, ok := m.opts.random.(globalSource); !ok {
		t.Errorf("random = %T, want globalSource", m.opts.random)
	}
	if m.opts.darkShadow != DefaultDarkShadow() || m.opts.lightShadow != DefaultLightShadow() {
		t.Error("default shadows not set")
	}
	if m.resolve == nil {
		t.Error("resolver is nil")
	}
}

// TestNewWithRenderer tests dependency injection of a custom renderer.
func TestNewWithRenderer(t *testing.T) {
	m := New(WithRenderer(nopRenderer{}))
	if _, ok := m.opts.renderer.(nopRenderer); !ok {
		t.Errorf("renderer = %T, want nopRenderer", m.opts.renderer)
	}

	board, err := m.Generate(NewSource(image.NewRGBA(image.Rect(0, 0, 30, 30))), 3, 3)
	if err != nil {
		t.Fatalf("Generate() = %v", err)
	}
	if got := len(board.Pieces()); got != 9 {
		t.Errorf("len(Pieces()) = %d, want 9", got)
	}
}

// TestNewMultipleOptions tests that later options override earlier ones.
func TestNewMultipleOptions(t *testing.T) {
	src := constSource(true)
	shadow := Shadow{Color: RGBA2(1, 0, 0, 1), Offset: Pt(2, 0), BlurRadius: 1}

	m := New(
		WithSeed(5),
		WithRandom(src),
		WithWorkers(3),
		WithDarkShadow(shadow),
		WithLightShadow(shadow),
	)
	if m.opts.random != BoolSource(src) {
		t.Errorf("random = %v, want the injected source", m.opts.random)
	}
	if m.opts.workers != 3 {
		t.Errorf("workers = %d, want 3", m.opts.workers)
	}
	if m.opts.darkShadow != shadow || m.opts.lightShadow != shadow {
		t.Error("shadow options not applied")
	}
}

func TestSourceSize(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 150))
	tests := []struct {
		name string
		src  Source
		want Size
	}{
		{"scale 1", NewSource(img), Size{Width: 300, Height: 150}},
		{"scale 3", Source{Image: img, Scale: 3}, Size{Width: 100, Height: 50}},
		{"zero scale", Source{Image: img}, Size{Width: 300, Height: 150}},
		{"nil image", Source{Scale: 2}, Size{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.Size(); got != tt.want {
				t.Errorf("Size() = %v, want %v", got, tt.want)
			}
		})
	}
	if !(Source{}).Size().Empty() {
		t.Error("empty source should have an empty size")
	}
}
