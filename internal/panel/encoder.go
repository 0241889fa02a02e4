package panel

// Decoder turns raw samples of a rotary encoder's CLK/DT lines into a
// signed detent counter. A transition on CLK, combined with DT's level
// at that instant, is one step: clockwise when the lines differ,
// counter-clockwise when they match. Ticks without a CLK transition are
// no-ops, so the sampling cadence only bounds how fast the knob can be
// turned without losing steps.
type Decoder struct {
	pos      int
	consumed int
	lastClk  bool
	primed   bool
}

func NewDecoder() *Decoder { return &Decoder{} }

// Sample feeds one scheduler-tick reading of both lines.
func (d *Decoder) Sample(clk, dt bool) {
	if !d.primed {
		// First sample only establishes the resting CLK level.
		d.lastClk = clk
		d.primed = true
		return
	}
	if clk == d.lastClk {
		return
	}
	if dt != clk {
		d.pos++ // clockwise
	} else {
		d.pos-- // counter-clockwise
	}
	d.lastClk = clk
}

// Position returns the running detent counter.
func (d *Decoder) Position() int { return d.pos }

// Delta returns the movement since the previous call and marks it
// consumed. Zero when the knob has not moved.
func (d *Decoder) Delta() int {
	delta := d.pos - d.consumed
	d.consumed = d.pos
	return delta
}
