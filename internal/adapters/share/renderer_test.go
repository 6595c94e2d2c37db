package share_test

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/randomtoy/oracle-go/internal/adapters/share"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFitText_ShortCard(t *testing.T) {
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}

	size, lines := share.FitText(fnt, "Act first. Apologize later.", share.FallbackWidth, share.FallbackHeight)
	if size < share.MinFontSize {
		t.Fatalf("size = %d, below minimum %d", size, share.MinFontSize)
	}
	if len(lines) == 0 {
		t.Fatal("no wrapped lines")
	}
	joined := strings.Join(lines, " ")
	for _, word := range strings.Fields("Act first. Apologize later.") {
		if !strings.Contains(joined, word) {
			t.Fatalf("wrapped lines dropped %q: %v", word, lines)
		}
	}
}

func TestFitText_LongerTextShrinks(t *testing.T) {
	fnt, err := truetype.Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}

	short, _ := share.FitText(fnt, "Act.", share.FallbackWidth, share.FallbackHeight)
	long, _ := share.FitText(fnt, strings.Repeat("the oracle speaks in riddles ", 20), share.FallbackWidth, share.FallbackHeight)
	if long > short {
		t.Fatalf("long text fitted at %d, short at %d", long, short)
	}
	if long < share.MinFontSize {
		t.Fatalf("long text size = %d, below minimum", long)
	}
}

func TestRender_WritesDecodablePNG(t *testing.T) {
	dir := t.TempDir()
	r, err := share.NewRenderer(dir, "", "", discardLogger())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	path, err := r.Render(context.Background(), "Act first. Apologize later.", 42)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Fatalf("path %s not under %s", path, dir)
	}
	if !strings.HasPrefix(filepath.Base(path), "42-") {
		t.Fatalf("filename %s missing chat id prefix", filepath.Base(path))
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != share.FallbackWidth || bounds.Dy() != share.FallbackHeight {
		t.Fatalf("canvas = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), share.FallbackWidth, share.FallbackHeight)
	}
}

func TestRender_UsesBackgroundDimensions(t *testing.T) {
	dir := t.TempDir()
	bgPath := filepath.Join(dir, "bg.png")
	writeSolidPNG(t, bgPath, 300, 400)

	r, err := share.NewRenderer(dir, bgPath, "", discardLogger())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	path, err := r.Render(context.Background(), "A card", 1)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 300 || img.Bounds().Dy() != 400 {
		t.Fatalf("canvas = %dx%d, want background dimensions", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRender_MissingAssetsFallBack(t *testing.T) {
	dir := t.TempDir()
	r, err := share.NewRenderer(dir, filepath.Join(dir, "nope.png"), filepath.Join(dir, "nope.ttf"), discardLogger())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	if _, err := r.Render(context.Background(), "A card", 1); err != nil {
		t.Fatalf("render with missing assets: %v", err)
	}
}

func TestRender_UniquePaths(t *testing.T) {
	r, err := share.NewRenderer(t.TempDir(), "", "", discardLogger())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	first, err := r.Render(context.Background(), "A card", 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Render(context.Background(), "A card", 1)
	if err != nil {
		t.Fatal(err)
	}
	if first == second {
		t.Fatalf("consecutive renders reused %s", first)
	}
}

func TestRender_CancelledContext(t *testing.T) {
	r, err := share.NewRenderer(t.TempDir(), "", "", discardLogger())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.Render(ctx, "A card", 1); err == nil {
		t.Fatal("expected a context error")
	}
}

func writeSolidPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{R: 0x20, G: 0x20, B: 0x40, A: 0xff}), image.Point{}, draw.Src)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}
