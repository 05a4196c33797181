package preview

import (
	"bytes"
	"image"
	"path/filepath"
	"testing"

	"github.com/matzehuels/cropsy/pkg/crop"
	cerrors "github.com/matzehuels/cropsy/pkg/errors"
)

func galleryRects(t *testing.T, count int) []crop.Rect {
	t.Helper()
	crops, err := crop.AutoCrop(1920, 1080, count)
	if err != nil {
		t.Fatal(err)
	}
	return crop.ToRects(1920, 1080, crops)
}

func TestRenderDrawsBoxes(t *testing.T) {
	style := DefaultStyle()
	base := Canvas(1920, 1080, style)
	rects := galleryRects(t, 4)

	img := Render(base, rects, style)

	if b := img.Bounds(); b.Dx() != 1920 || b.Dy() != 1080 {
		t.Fatalf("bounds = %v", b)
	}
	if got := img.NRGBAAt(0, 0); got != style.Background {
		t.Errorf("corner = %v, want background %v", got, style.Background)
	}

	for i, r := range rects {
		px := PixelRect(r)
		if got := img.NRGBAAt(px.Min.X, px.Min.Y+px.Dy()/2); got != style.Outline {
			t.Errorf("box %d left edge = %v, want outline", i, got)
		}
		center := img.NRGBAAt(px.Min.X+px.Dx()/2, px.Min.Y+px.Dy()/2)
		if center == style.Background {
			t.Errorf("box %d interior should be tinted", i)
		}
	}

	first := PixelRect(rects[0])
	if base.NRGBAAt(first.Min.X+first.Dx()/2, first.Min.Y+first.Dy()/2) != style.Background {
		t.Error("Render must not modify the base image")
	}
}

func TestRenderWithoutFill(t *testing.T) {
	style := DefaultStyle()
	style.FillOpacity = 0
	style.Labels = false
	rects := galleryRects(t, 1)

	img := Render(Canvas(1920, 1080, style), rects, style)
	px := PixelRect(rects[0])
	if got := img.NRGBAAt(px.Min.X+px.Dx()/2, px.Min.Y+px.Dy()/2); got != style.Background {
		t.Errorf("interior = %v, want untouched background", got)
	}
}

func TestPixelRect(t *testing.T) {
	r := PixelRect(crop.Rect{X: 97, Y: 48.5, Width: 1726, Height: 970})
	want := image.Rect(97, 48, 1823, 1019)
	if r != want {
		t.Errorf("PixelRect() = %v, want %v", r, want)
	}
}

func TestTiles(t *testing.T) {
	src := Canvas(1920, 1080, DefaultStyle())
	rects := galleryRects(t, 3)

	tiles := Tiles(src, rects)
	if len(tiles) != 3 {
		t.Fatalf("len(tiles) = %d, want 3", len(tiles))
	}
	for i, tile := range tiles {
		want := PixelRect(rects[i])
		if tile.Bounds().Dx() != want.Dx() || tile.Bounds().Dy() != want.Dy() {
			t.Errorf("tile %d size = %v, want %dx%d", i, tile.Bounds().Size(), want.Dx(), want.Dy())
		}
	}

	outside := Tiles(src, []crop.Rect{{X: 5000, Y: 5000, Width: 10, Height: 10}})
	if !outside[0].Bounds().Empty() {
		t.Error("rect outside the image should give an empty tile")
	}
}

func TestFitScreen(t *testing.T) {
	src := Canvas(960, 540, DefaultStyle())
	if b := FitScreen(src, 1920, 1080).Bounds(); b.Dx() != 1920 || b.Dy() != 1080 {
		t.Errorf("resized bounds = %v", b)
	}
	if b := FitScreen(src, 960, 540).Bounds(); b.Dx() != 960 || b.Dy() != 540 {
		t.Errorf("copied bounds = %v", b)
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    string
		wantErr bool
	}{
		{"out.png", FormatPNG, false},
		{"OUT.JPG", FormatJPEG, false},
		{"a/b.jpeg", FormatJPEG, false},
		{"shot.webp", FormatWebP, false},
		{"shot.gif", "", true},
		{"noext", "", true},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			continue
		}
		if err != nil && !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
			t.Errorf("FormatFromPath(%q) code = %s", tt.path, cerrors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestEncodeFormats(t *testing.T) {
	img := Canvas(64, 36, DefaultStyle())
	for _, format := range []string{FormatPNG, FormatJPEG, FormatWebP} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, img, format, EncodeOptions{}); err != nil {
				t.Fatalf("Encode() error = %v", err)
			}
			decoded, _, err := image.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if decoded.Bounds().Dx() != 64 || decoded.Bounds().Dy() != 36 {
				t.Errorf("bounds = %v", decoded.Bounds())
			}
		})
	}

	if err := Encode(&bytes.Buffer{}, img, "bmp", EncodeOptions{}); !cerrors.Is(err, cerrors.ErrCodeInvalidFormat) {
		t.Errorf("Encode(bmp) error = %v, want INVALID_FORMAT", err)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	img := Render(Canvas(320, 180, DefaultStyle()), nil, DefaultStyle())

	for _, name := range []string{"a.png", "b.jpg", "c.webp"} {
		path := filepath.Join(dir, name)
		if err := Save(img, path, EncodeOptions{Lossless: true}); err != nil {
			t.Fatalf("Save(%s) error = %v", name, err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%s) error = %v", name, err)
		}
		if loaded.Bounds().Dx() != 320 || loaded.Bounds().Dy() != 180 {
			t.Errorf("%s bounds = %v", name, loaded.Bounds())
		}
	}

	if err := Save(img, filepath.Join(dir, "x.tiff"), EncodeOptions{}); err == nil {
		t.Error("Save with unsupported extension should fail")
	}
	if _, err := Load(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestTilePath(t *testing.T) {
	if got := TilePath("out/gallery.png", 0); got != "out/gallery-001.png" {
		t.Errorf("TilePath() = %s", got)
	}
	if got := TilePath("shot.webp", 11); got != "shot-012.webp" {
		t.Errorf("TilePath() = %s", got)
	}
}
