package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/randomtoy/oracle-go/internal/domain"
	"github.com/randomtoy/oracle-go/internal/ports"
)

// Pacing holds the delays between animation ticks.
type Pacing struct {
	LineRevealMin time.Duration
	LineRevealMax time.Duration
	GlitchMin     time.Duration
	GlitchMax     time.Duration
	DripStep      time.Duration
	SettlePause   time.Duration
	FlickerPause  time.Duration
	VoidHealMin   time.Duration
	VoidHealMax   time.Duration
	VoidSettle    time.Duration
}

// DefaultPacing returns the production animation delays.
func DefaultPacing() Pacing {
	return Pacing{
		LineRevealMin: 280 * time.Millisecond,
		LineRevealMax: 650 * time.Millisecond,
		GlitchMin:     80 * time.Millisecond,
		GlitchMax:     180 * time.Millisecond,
		DripStep:      60 * time.Millisecond,
		SettlePause:   220 * time.Millisecond,
		FlickerPause:  160 * time.Millisecond,
		VoidHealMin:   150 * time.Millisecond,
		VoidHealMax:   330 * time.Millisecond,
		VoidSettle:    250 * time.Millisecond,
	}
}

const (
	// voidChance is the rare corruption-reveal override.
	voidChance = 0.012
	// rowGlitchChance briefly corrupts a row before its clean reveal.
	rowGlitchChance = 0.30
	// dripRevealChance reveals one non-blank cell on one column pass.
	dripRevealChance = 0.88
	// dripGlitchChance overlays a transient whole-frame glitch per column.
	dripGlitchChance = 0.15
	// healChance restores one corrupted character per healing pass.
	healChance = 0.35
)

// Animator runs one reveal session per drawn card: it builds the frame
// geometry, creates the blank card message, then plays one of the three
// reveal algorithms, pushing every intermediate frame through the sink in
// order. Frames are never batched.
type Animator struct {
	sink      *RenderSink
	messenger ports.Messenger
	sleeper   ports.Sleeper
	rng       domain.RNG
	pacing    Pacing
}

func NewAnimator(sink *RenderSink, messenger ports.Messenger, sleeper ports.Sleeper, rng domain.RNG, pacing Pacing) *Animator {
	return &Animator{
		sink:      sink,
		messenger: messenger,
		sleeper:   sleeper,
		rng:       rng,
		pacing:    pacing,
	}
}

// Reveal plays a full animation for the card text in the given chat and
// returns the message the card lives in. The message is created before
// the animation starts, so a partially revealed card still has a handle
// even when the animation aborts.
func (a *Animator) Reveal(ctx context.Context, chatID int64, text string) (ports.MessageRef, error) {
	style := domain.RandomStyle(a.rng)
	width := domain.ComputeInnerWidth(text)
	lines := domain.WrapText(text, width)
	padTop, padBottom := domain.ComputeSquarePadding(width, len(lines))

	_ = a.messenger.PresencePing(ctx, chatID, ports.PingTyping)

	blank := domain.BuildFrame(make([]string, padTop+len(lines)+padBottom), style, width, 0, 0)
	ref, err := a.messenger.SendMessage(ctx, chatID, blank, frameOptions)
	if err != nil {
		return ports.MessageRef{}, fmt.Errorf("send blank frame: %w", err)
	}
	a.sink.Record(ref, blank)

	session := revealSession{
		ref:     ref,
		style:   style,
		width:   width,
		working: paddedLines(lines, padTop, padBottom),
	}

	if a.rng.Float64() < voidChance {
		err = a.revealVoid(ctx, session)
	} else if a.rng.Intn(4) == 0 {
		err = a.revealDrip(ctx, session)
	} else {
		err = a.revealLines(ctx, session)
	}
	if err != nil {
		return ref, fmt.Errorf("reveal: %w", err)
	}
	return ref, nil
}

// revealSession is the per-run state shared by the three algorithms. The
// working lines already carry the square padding as leading and trailing
// blanks, so frames are built with zero explicit padding.
type revealSession struct {
	ref     ports.MessageRef
	style   domain.Style
	width   int
	working []string
}

func (s revealSession) frame(lines []string) string {
	return domain.BuildFrame(lines, s.style, s.width, 0, 0)
}

func paddedLines(lines []string, padTop, padBottom int) []string {
	out := make([]string, 0, padTop+len(lines)+padBottom)
	for i := 0; i < padTop; i++ {
		out = append(out, "")
	}
	out = append(out, lines...)
	for i := 0; i < padBottom; i++ {
		out = append(out, "")
	}
	return out
}

// revealLines uncovers rows top to bottom, one per tick. A revealed row
// may first flash a corrupted variant of itself before settling clean.
func (a *Animator) revealLines(ctx context.Context, s revealSession) error {
	masked := make([]string, len(s.working))
	for i := range masked {
		masked[i] = strings.Repeat(" ", s.width)
	}
	if err := a.sink.Write(ctx, s.ref, s.frame(masked)); err != nil {
		return err
	}

	for i := range s.working {
		_ = a.messenger.PresencePing(ctx, s.ref.ChatID, ports.PingTyping)
		if err := a.sleepBetween(ctx, a.pacing.LineRevealMin, a.pacing.LineRevealMax); err != nil {
			return err
		}

		if s.working[i] != "" {
			masked[i] = s.working[i]
			if a.rng.Float64() < rowGlitchChance {
				intensity := 0.25 + a.rng.Float64()*0.30
				glitched := domain.Glitch([]string{s.working[i]}, intensity, a.rng)[0]
				tmp := make([]string, len(masked))
				copy(tmp, masked)
				tmp[i] = glitched
				if err := a.sink.Write(ctx, s.ref, s.frame(tmp)); err != nil {
					return err
				}
				if err := a.sleepBetween(ctx, a.pacing.GlitchMin, a.pacing.GlitchMax); err != nil {
					return err
				}
			}
		}
		if err := a.sink.Write(ctx, s.ref, s.frame(masked)); err != nil {
			return err
		}
	}

	if err := a.sleeper.Sleep(ctx, a.pacing.SettlePause); err != nil {
		return err
	}
	if err := a.sink.Write(ctx, s.ref, s.frame(masked)); err != nil {
		return err
	}
	return a.maybeFlicker(ctx, s, masked, 0.4)
}

// revealDrip uncovers the padded block column by column. Cells are
// revealed probabilistically and never re-hidden; the terminal frame is
// force-written exact regardless of any cells the randomness missed.
func (a *Animator) revealDrip(ctx context.Context, s revealSession) error {
	padded := make([]string, len(s.working))
	for i, ln := range s.working {
		padded[i] = domain.PadCenter(ln, s.width)
	}
	grid := make([][]rune, len(padded))
	for i, ln := range padded {
		grid[i] = []rune(ln)
	}
	revealed := make([][]bool, len(padded))
	for i := range revealed {
		revealed[i] = make([]bool, s.width)
	}

	for col := 0; col < s.width; col++ {
		_ = a.messenger.PresencePing(ctx, s.ref.ChatID, ports.PingTyping)
		if err := a.sleeper.Sleep(ctx, a.pacing.DripStep); err != nil {
			return err
		}

		for row := range grid {
			if col < len(grid[row]) && grid[row][col] != ' ' && !revealed[row][col] {
				if a.rng.Float64() < dripRevealChance {
					revealed[row][col] = true
				}
			}
		}

		shown := domain.Mask(padded, revealed)
		if a.rng.Float64() < dripGlitchChance {
			glitched := domain.Glitch(shown, 0.12, a.rng)
			if err := a.sink.Write(ctx, s.ref, s.frame(glitched)); err != nil {
				return err
			}
			if err := a.sleepBetween(ctx, a.pacing.GlitchMin, a.pacing.GlitchMax); err != nil {
				return err
			}
		}
		if err := a.sink.Write(ctx, s.ref, s.frame(shown)); err != nil {
			return err
		}
	}

	if err := a.sleeper.Sleep(ctx, a.pacing.SettlePause); err != nil {
		return err
	}
	final := make([]string, len(padded))
	for i, ln := range padded {
		final[i] = strings.TrimSpace(ln)
	}
	return a.sink.Write(ctx, s.ref, s.frame(final))
}

// revealVoid is the rare corruption path: show full noise, then heal it
// over a few passes, then force the exact target.
func (a *Animator) revealVoid(ctx context.Context, s revealSession) error {
	targets := make([]string, len(s.working))
	for i, ln := range s.working {
		targets[i] = domain.PadCenter(ln, s.width)
	}

	current := domain.Corrupt(targets, a.rng)
	if err := a.sink.Write(ctx, s.ref, s.frame(current)); err != nil {
		return err
	}

	passes := 3 + a.rng.Intn(3)
	for p := 0; p < passes; p++ {
		_ = a.messenger.PresencePing(ctx, s.ref.ChatID, ports.PingTyping)
		if err := a.sleepBetween(ctx, a.pacing.VoidHealMin, a.pacing.VoidHealMax); err != nil {
			return err
		}
		current = domain.Heal(current, targets, healChance, a.rng)
		if err := a.sink.Write(ctx, s.ref, s.frame(current)); err != nil {
			return err
		}
	}

	if err := a.sleeper.Sleep(ctx, a.pacing.VoidSettle); err != nil {
		return err
	}
	if err := a.sink.Write(ctx, s.ref, s.frame(targets)); err != nil {
		return err
	}
	return a.maybeFlicker(ctx, s, targets, 0.5)
}

// maybeFlicker briefly swaps to the reversed-ornament style and back.
func (a *Animator) maybeFlicker(ctx context.Context, s revealSession, lines []string, chance float64) error {
	if a.rng.Float64() >= chance {
		return nil
	}
	alt := s.style.Flicker()
	if err := a.sleeper.Sleep(ctx, a.pacing.FlickerPause); err != nil {
		return err
	}
	if err := a.sink.Write(ctx, s.ref, domain.BuildFrame(lines, alt, s.width, 0, 0)); err != nil {
		return err
	}
	if err := a.sleeper.Sleep(ctx, a.pacing.FlickerPause); err != nil {
		return err
	}
	return a.sink.Write(ctx, s.ref, s.frame(lines))
}

func (a *Animator) sleepBetween(ctx context.Context, min, max time.Duration) error {
	d := min
	if max > min {
		d += time.Duration(a.rng.Float64() * float64(max-min))
	}
	return a.sleeper.Sleep(ctx, d)
}
