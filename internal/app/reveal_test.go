package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/randomtoy/oracle-go/internal/app"
	"github.com/randomtoy/oracle-go/internal/domain"
)

const revealCard = "Act first. Apologize later."

// newAnimator wires an animator to the fake messenger with instant pacing.
func newAnimator(msgr *fakeMessenger, rng domain.RNG) *app.Animator {
	sink := app.NewRenderSink(msgr, 64)
	return app.NewAnimator(sink, msgr, instantSleeper{}, rng, app.DefaultPacing())
}

// settledFrame rebuilds the frame a finished reveal must end on: the
// wrapped card centered inside the square-padded border for the style at
// the given index.
func settledFrame(text string, styleIdx int) string {
	style := domain.RandomStyle(&seqRNG{ints: []int{styleIdx}})
	width := domain.ComputeInnerWidth(text)
	lines := domain.WrapText(text, width)
	padTop, padBottom := domain.ComputeSquarePadding(width, len(lines))
	return domain.BuildFrame(lines, style, width, padTop, padBottom)
}

func frameRows(frame string) []string {
	return strings.Split(frame, "\n")
}

func nonSpaceCount(frame string) int {
	n := 0
	for _, r := range frame {
		if r != ' ' && r != '\n' {
			n++
		}
	}
	return n
}

func TestReveal_CreatesBlankMessageFirst(t *testing.T) {
	msgr := &fakeMessenger{}
	// Style 0, no void, sequential reveal.
	rng := &seqRNG{state: 11, ints: []int{0, 3}, floats: []float64{0.9}}

	ref, err := newAnimator(msgr, rng).Reveal(context.Background(), 42, revealCard)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if ref.ChatID != 42 || ref.MessageID == 0 {
		t.Fatalf("ref = %+v", ref)
	}
	if len(msgr.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(msgr.sent))
	}
	for _, word := range strings.Fields(revealCard) {
		if strings.Contains(msgr.sent[0], word) {
			t.Fatalf("initial frame already shows %q", word)
		}
	}
}

func TestReveal_SequentialEndsOnExactFrame(t *testing.T) {
	msgr := &fakeMessenger{}
	rng := &seqRNG{state: 11, ints: []int{0, 3}, floats: []float64{0.9}}

	if _, err := newAnimator(msgr, rng).Reveal(context.Background(), 1, revealCard); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if len(msgr.frames) == 0 {
		t.Fatal("no frames written")
	}
	want := settledFrame(revealCard, 0)
	if got := msgr.frames[len(msgr.frames)-1]; got != want {
		t.Fatalf("final frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestReveal_DripMonotonicAndEndsExact(t *testing.T) {
	msgr := &fakeMessenger{}
	// Style 1, no void, Intn(4) == 0 selects the drip reveal.
	rng := &seqRNG{state: 23, ints: []int{1, 0}, floats: []float64{0.9}}

	if _, err := newAnimator(msgr, rng).Reveal(context.Background(), 1, revealCard); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if len(msgr.frames) < 2 {
		t.Fatalf("only %d frames written", len(msgr.frames))
	}

	prev := nonSpaceCount(msgr.sent[0])
	for i, frame := range msgr.frames {
		n := nonSpaceCount(frame)
		if n < prev {
			t.Fatalf("frame %d lost glyphs: %d -> %d", i, prev, n)
		}
		prev = n
	}

	want := settledFrame(revealCard, 1)
	if got := msgr.frames[len(msgr.frames)-1]; got != want {
		t.Fatalf("final frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestReveal_VoidEndsOnExactFrame(t *testing.T) {
	msgr := &fakeMessenger{}
	// Style 2, first probability roll under the corruption threshold.
	rng := &seqRNG{state: 37, ints: []int{2}, floats: []float64{0.0}}

	if _, err := newAnimator(msgr, rng).Reveal(context.Background(), 1, revealCard); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if len(msgr.frames) < 2 {
		t.Fatalf("only %d frames written", len(msgr.frames))
	}
	want := settledFrame(revealCard, 2)
	if got := msgr.frames[len(msgr.frames)-1]; got != want {
		t.Fatalf("final frame:\n%s\nwant:\n%s", got, want)
	}
}

func TestReveal_FramesStayRectangular(t *testing.T) {
	for name, rng := range map[string]*seqRNG{
		"sequential": {state: 11, ints: []int{0, 3}, floats: []float64{0.9}},
		"drip":       {state: 23, ints: []int{1, 0}, floats: []float64{0.9}},
		"void":       {state: 37, ints: []int{2}, floats: []float64{0.0}},
	} {
		t.Run(name, func(t *testing.T) {
			msgr := &fakeMessenger{}
			if _, err := newAnimator(msgr, rng).Reveal(context.Background(), 1, revealCard); err != nil {
				t.Fatalf("reveal: %v", err)
			}
			wantRows := len(frameRows(msgr.sent[0]))
			for i, frame := range msgr.frames {
				if got := len(frameRows(frame)); got != wantRows {
					t.Fatalf("frame %d has %d rows, want %d", i, got, wantRows)
				}
			}
		})
	}
}

func TestReveal_AbortsOnEditError(t *testing.T) {
	boom := errors.New("chat unreachable")
	msgr := &fakeMessenger{editErrs: []error{boom}}
	rng := &seqRNG{state: 11, ints: []int{0, 3}, floats: []float64{0.9}}

	ref, err := newAnimator(msgr, rng).Reveal(context.Background(), 1, revealCard)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want %v", err, boom)
	}
	// The message handle survives the aborted animation.
	if ref.MessageID == 0 {
		t.Fatal("expected a usable message ref despite the abort")
	}
}

func TestReveal_ContextCancelled(t *testing.T) {
	msgr := &fakeMessenger{}
	rng := &seqRNG{state: 11, ints: []int{0, 3}, floats: []float64{0.9}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newAnimator(msgr, rng).Reveal(ctx, 1, revealCard)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}
