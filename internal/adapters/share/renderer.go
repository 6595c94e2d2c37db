package share

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/randomtoy/oracle-go/internal/ports"
)

// Fallback canvas dimensions used when no background image is configured.
const (
	FallbackWidth  = 1000
	FallbackHeight = 1250
)

// Text box margins as fractions of the canvas.
const (
	marginSide   = 0.12
	marginTop    = 0.14
	marginBottom = 0.12
)

// MinFontSize is the floor of the fitting search.
const MinFontSize = 16

// lineSpacing is the extra gap between lines as a fraction of line height.
const lineSpacing = 0.35

// Renderer draws a card's text onto a background image (or a solid
// fallback canvas) and writes the result as a PNG under outDir. Missing
// assets never fail a render: a missing background falls back to the
// solid canvas and a missing font file falls back to the embedded Go
// Regular face.
type Renderer struct {
	outDir     string
	background image.Image // nil means solid fallback
	fnt        *truetype.Font
	logger     *slog.Logger

	mu    sync.Mutex
	faces map[int]font.Face
}

func NewRenderer(outDir, backgroundPath, fontPath string, logger *slog.Logger) (*Renderer, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create share dir: %w", err)
	}

	r := &Renderer{
		outDir: outDir,
		logger: logger,
		faces:  make(map[int]font.Face),
	}

	fnt, err := loadFont(fontPath)
	if err != nil {
		logger.Warn("share font unavailable, using built-in Go Regular", "path", fontPath, "error", err)
		fnt, err = truetype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse fallback font: %w", err)
		}
	}
	r.fnt = fnt

	if backgroundPath != "" {
		img, err := gg.LoadImage(backgroundPath)
		if err != nil {
			logger.Warn("share background unavailable, using solid canvas", "path", backgroundPath, "error", err)
		} else {
			r.background = img
		}
	}

	return r, nil
}

func loadFont(path string) (*truetype.Font, error) {
	if path == "" {
		return nil, fmt.Errorf("no font configured")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	fnt, err := truetype.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return fnt, nil
}

// Render fits and draws the card text, writes the PNG, and returns its
// path. Filenames carry the chat id plus a random suffix to avoid
// collisions between concurrent shares.
func (r *Renderer) Render(ctx context.Context, text string, chatID int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	width, height := FallbackWidth, FallbackHeight
	if r.background != nil {
		bounds := r.background.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	size, lines := FitText(r.fnt, text, width, height)

	dc := gg.NewContext(width, height)
	if r.background != nil {
		dc.DrawImage(r.background, 0, 0)
	} else {
		dc.SetColor(color.RGBA{R: 0x14, G: 0x10, B: 0x1e, A: 0xff})
		dc.Clear()
	}

	r.drawLines(dc, lines, size, width, height)

	path := filepath.Join(r.outDir, fmt.Sprintf("%d-%s.png", chatID, randomSuffix()))
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("save share png: %w", err)
	}
	return path, nil
}

// drawLines stacks the fitted lines as a vertically centered block inside
// the text box, each line horizontally centered, with an offset-drawn
// outline stroke for contrast against arbitrary backgrounds.
func (r *Renderer) drawLines(dc *gg.Context, lines []string, size int, width, height int) {
	dc.SetFontFace(r.face(size))

	boxTop := float64(height) * marginTop
	boxHeight := float64(height) * (1 - marginTop - marginBottom)
	lineHeight := float64(size)
	step := lineHeight * (1 + lineSpacing)
	blockHeight := float64(len(lines))*lineHeight + float64(len(lines)-1)*lineSpacing*lineHeight

	centerX := float64(width) / 2
	y := boxTop + (boxHeight-blockHeight)/2 + lineHeight/2

	stroke := 1.0
	if size >= 32 {
		stroke = float64(size) / 16
	}

	for _, line := range lines {
		dc.SetColor(color.RGBA{A: 0xff})
		for _, dx := range []float64{-stroke, 0, stroke} {
			for _, dy := range []float64{-stroke, 0, stroke} {
				if dx == 0 && dy == 0 {
					continue
				}
				dc.DrawStringAnchored(line, centerX+dx, y+dy, 0.5, 0.5)
			}
		}
		dc.SetColor(color.White)
		dc.DrawStringAnchored(line, centerX, y, 0.5, 0.5)
		y += step
	}
}

func (r *Renderer) face(size int) font.Face {
	r.mu.Lock()
	defer r.mu.Unlock()
	if face, ok := r.faces[size]; ok {
		return face
	}
	face := truetype.NewFace(r.fnt, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	r.faces[size] = face
	return face
}

// FitText binary-searches the largest font size whose greedy word wrap
// fits the text box: total block height within the box and every wrapped
// line within the box width. The search range is [max(16, 5% of canvas
// width), 14% of canvas width]; if no size is accepted the low bound is
// used best-effort.
func FitText(fnt *truetype.Font, text string, canvasWidth, canvasHeight int) (int, []string) {
	boxWidth := float64(canvasWidth) * (1 - 2*marginSide)
	boxHeight := float64(canvasHeight) * (1 - marginTop - marginBottom)

	lo := canvasWidth * 5 / 100
	if lo < MinFontSize {
		lo = MinFontSize
	}
	hi := canvasWidth * 14 / 100

	floor := lo
	best := 0
	var bestLines []string

	for lo <= hi {
		mid := (lo + hi) / 2
		lines, ok := wrapAt(fnt, text, mid, boxWidth, boxHeight)
		if ok {
			best = mid
			bestLines = lines
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == 0 {
		best = floor
		bestLines, _ = wrapAt(fnt, text, floor, boxWidth, boxHeight)
	}
	return best, bestLines
}

// wrapAt wraps text at the candidate size and reports whether the block
// satisfies both box constraints.
func wrapAt(fnt *truetype.Font, text string, size int, boxWidth, boxHeight float64) ([]string, bool) {
	face := truetype.NewFace(fnt, &truetype.Options{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	dc := gg.NewContext(1, 1)
	dc.SetFontFace(face)

	lines := dc.WordWrap(text, boxWidth)
	if len(lines) == 0 {
		lines = []string{""}
	}

	lineHeight := float64(size)
	total := float64(len(lines))*lineHeight + float64(len(lines)-1)*lineSpacing*lineHeight
	if total > boxHeight {
		return lines, false
	}
	for _, line := range lines {
		if w, _ := dc.MeasureString(line); w > boxWidth {
			return lines, false
		}
	}
	return lines, true
}

func randomSuffix() string {
	b := make([]byte, 6)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

var _ ports.ShareRenderer = (*Renderer)(nil)
