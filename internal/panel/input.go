package panel

import (
	"fmt"

	gpiod "github.com/warthog618/go-gpiocdev"
)

// InputState is one scheduler-tick sample of the panel's physical
// inputs. Button levels are already normalized: true means pressed.
type InputState struct {
	Clk     bool
	Dt      bool
	Confirm bool
	Power   bool
}

// InputSource supplies input samples once per tick.
type InputSource interface {
	Sample() (InputState, error)
}

// Pins maps the panel's inputs to GPIO line offsets.
type Pins struct {
	EncoderClk int
	EncoderDt  int
	Confirm    int // encoder push button
	Power      int
}

// GPIOInput samples the encoder and buttons through the character
// device GPIO interface. All four lines are requested as pulled-up
// inputs; the buttons are wired active-low.
type GPIOInput struct {
	chip  *gpiod.Chip
	lines *gpiod.Lines
	buf   []int
}

func NewGPIOInput(chipName string, pins Pins) (*GPIOInput, error) {
	chip, err := gpiod.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open chip %s: %w", chipName, err)
	}
	offsets := []int{pins.EncoderClk, pins.EncoderDt, pins.Confirm, pins.Power}
	lines, err := chip.RequestLines(offsets, gpiod.AsInput, gpiod.WithPullUp)
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("request input lines %v: %w", offsets, err)
	}
	return &GPIOInput{chip: chip, lines: lines, buf: make([]int, len(offsets))}, nil
}

func (g *GPIOInput) Sample() (InputState, error) {
	if err := g.lines.Values(g.buf); err != nil {
		return InputState{}, fmt.Errorf("read input lines: %w", err)
	}
	return InputState{
		Clk:     g.buf[0] != 0,
		Dt:      g.buf[1] != 0,
		Confirm: g.buf[2] == 0, // active-low
		Power:   g.buf[3] == 0,
	}, nil
}

func (g *GPIOInput) Close() error {
	if g.lines != nil {
		_ = g.lines.Close()
	}
	if g.chip != nil {
		return g.chip.Close()
	}
	return nil
}
