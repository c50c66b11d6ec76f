package pixel

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestNew(t *testing.T) {
	b := New(3, 2)
	if b.Width != 3 || b.Height != 2 {
		t.Errorf("dimensions: got %dx%d, want 3x2", b.Width, b.Height)
	}
	if len(b.Pix) != 3*2*4 {
		t.Errorf("len(Pix): got %d, want %d", len(b.Pix), 3*2*4)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate: unexpected error %v", err)
	}
}

func TestNew_NegativeDimensions(t *testing.T) {
	b := New(-1, 5)
	if b.Width != 0 || len(b.Pix) != 0 {
		t.Errorf("got width %d with %d samples, want empty", b.Width, len(b.Pix))
	}
	if !errors.Is(b.Validate(), ErrEmptyBuffer) {
		t.Errorf("Validate: got %v, want ErrEmptyBuffer", b.Validate())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		buf  *Buffer
		want error
	}{
		{"nil", nil, ErrEmptyBuffer},
		{"zero width", &Buffer{Width: 0, Height: 2}, ErrEmptyBuffer},
		{"short pix", &Buffer{Width: 2, Height: 2, Pix: make([]uint8, 15)}, ErrSizeMismatch},
		{"long pix", &Buffer{Width: 1, Height: 1, Pix: make([]uint8, 8)}, ErrSizeMismatch},
		{"ok", New(2, 2), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.buf.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	b := New(5, 4)
	tests := []struct {
		x, y, want int
	}{
		{0, 0, 0},
		{1, 0, 4},
		{0, 1, 20},
		{4, 3, (3*5 + 4) * 4},
	}
	for _, tt := range tests {
		if got := b.Offset(tt.x, tt.y); got != tt.want {
			t.Errorf("Offset(%d,%d): got %d, want %d", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestSetAt(t *testing.T) {
	b := New(2, 2)
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 40}
	b.Set(1, 1, c)

	if got := b.At(1, 1); got != c {
		t.Errorf("At(1,1): got %v, want %v", got, c)
	}
	if got := b.Pix[12:16]; got[0] != 10 || got[3] != 40 {
		t.Errorf("Pix[12:16]: got %v", got)
	}

	// Out of bounds is ignored on write and zero on read.
	b.Set(2, 0, c)
	b.Set(-1, 0, c)
	if got := b.At(5, 5); got != (color.NRGBA{}) {
		t.Errorf("At out of bounds: got %v, want zero", got)
	}
}

func TestClampByte(t *testing.T) {
	tests := []struct {
		in   float64
		want uint8
	}{
		{-10, 0},
		{0, 0},
		{0.99, 0},
		{138.75, 138},
		{254.999, 254},
		{255, 255},
		{300, 255},
	}
	for _, tt := range tests {
		if got := ClampByte(tt.in); got != tt.want {
			t.Errorf("ClampByte(%v): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSetChannel(t *testing.T) {
	b := New(1, 1)
	b.SetChannel(0, 512)
	b.SetChannel(1, -3)
	b.SetChannel(2, 99.9)
	if b.Pix[0] != 255 || b.Pix[1] != 0 || b.Pix[2] != 99 {
		t.Errorf("got %v, want [255 0 99 ...]", b.Pix[:3])
	}
}

func TestClone(t *testing.T) {
	b := New(2, 1)
	b.Set(0, 0, color.NRGBA{R: 1, G: 2, B: 3, A: 4})

	c := b.Clone()
	c.Pix[0] = 99

	if b.Pix[0] != 1 {
		t.Errorf("Clone shares samples with original")
	}
	if !c.SameSize(b) {
		t.Errorf("Clone dimensions: got %dx%d, want %dx%d", c.Width, c.Height, b.Width, b.Height)
	}
}

func TestForEachVisible(t *testing.T) {
	b := New(3, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			b.Set(x, y, color.NRGBA{A: 255})
		}
	}
	b.Set(1, 0, color.NRGBA{R: 50, A: 0})

	var visited [][2]int
	b.ForEachVisible(func(x, y, i int) {
		if i != b.Offset(x, y) {
			t.Errorf("offset for (%d,%d): got %d, want %d", x, y, i, b.Offset(x, y))
		}
		visited = append(visited, [2]int{x, y})
	})

	want := [][2]int{{0, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if len(visited) != len(want) {
		t.Fatalf("visited %d pixels, want %d", len(visited), len(want))
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visit %d: got %v, want %v", i, visited[i], want[i])
		}
	}
}

func TestFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 13, 12))
	img.SetNRGBA(10, 10, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	img.SetNRGBA(12, 11, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	b := FromImage(img)
	if b.Width != 3 || b.Height != 2 {
		t.Fatalf("dimensions: got %dx%d, want 3x2", b.Width, b.Height)
	}
	if got := b.At(0, 0); got != (color.NRGBA{R: 200, G: 100, B: 50, A: 128}) {
		t.Errorf("At(0,0): got %v", got)
	}
	if got := b.At(2, 1); got != (color.NRGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("At(2,1): got %v", got)
	}
}

func TestNRGBA_SharesSamples(t *testing.T) {
	b := New(2, 2)
	img := b.NRGBA()
	img.SetNRGBA(1, 0, color.NRGBA{R: 7, A: 255})

	if got := b.At(1, 0); got.R != 7 || got.A != 255 {
		t.Errorf("write through NRGBA not visible: got %v", got)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("bounds: got %v", img.Bounds())
	}
}
