package actuator

import (
	"fmt"
	"syscall"
	"time"

	"hvac_control/internal/logger"
	"hvac_control/internal/models"
)

// LIRC ioctl constants for configuring the IR transmitter.
const (
	lircSetSendMode    = 0x40046911
	lircSetSendCarrier = 0x40046913
	lircModePulse      = 0x2 // raw pulse/space timings

	bytesPerPulse = 4
)

// interCodeDelay separates consecutive code transmissions within one
// snapshot application.
const interCodeDelay = 100 * time.Millisecond

// Protocol describes the raw timing of a fixed-code IR remote, in
// microseconds. It is brand-agnostic: codes are captured per appliance
// and listed in config, not synthesized here.
type Protocol struct {
	Device    string // LIRC device path, e.g. /dev/lirc0
	Bits      int
	Header    []int // [mark, space]
	One       []int // [mark, space]
	Zero      []int // [mark, space]
	PTrail    int
	Gap       int // microseconds between transmissions
	Frequency int // carrier, typically 38000
}

// LIRC replays configured IR codes through a /dev/lirc device. A
// snapshot maps to an ordered list of code names; names missing from
// the table are skipped, so sparse remotes still work.
type LIRC struct {
	proto Protocol
	codes map[string]uint32
	log   *logger.Logger
}

func NewLIRC(proto Protocol, codes map[string]uint32, log *logger.Logger) *LIRC {
	return &LIRC{proto: proto, codes: codes, log: log}
}

func (a *LIRC) Apply(s models.Settings) error {
	for i, key := range commandKeys(s) {
		code, ok := a.codes[key]
		if !ok {
			a.log.Debugw("ir_code_missing", "key", key)
			continue
		}
		if i > 0 {
			time.Sleep(interCodeDelay)
		}
		if err := a.transmit(code); err != nil {
			return fmt.Errorf("send %s: %w", key, err)
		}
		if a.proto.Gap > 0 {
			time.Sleep(time.Duration(a.proto.Gap) * time.Microsecond)
		}
	}
	return nil
}

// commandKeys flattens a snapshot into the code names to replay.
// Turning off is a single code; anything else re-sends the full
// configuration.
func commandKeys(s models.Settings) []string {
	if s.Power == models.Off {
		return []string{"power_off"}
	}
	return []string{
		"power_on",
		"mode_" + s.Mode.String(),
		fmt.Sprintf("temp_%d", s.SetTemp),
		"fan_" + s.FanSpeed.String(),
		"swing_" + s.Swing.String(),
	}
}

// pulses builds the raw mark/space sequence for a code: header, data
// bits MSB first, trailing pulse.
func (a *LIRC) pulses(code uint32) []int {
	var out []int
	if len(a.proto.Header) == 2 {
		out = append(out, a.proto.Header[0], a.proto.Header[1])
	}
	for i := a.proto.Bits - 1; i >= 0; i-- {
		if (code>>i)&1 == 1 {
			out = append(out, a.proto.One[0], a.proto.One[1])
		} else {
			out = append(out, a.proto.Zero[0], a.proto.Zero[1])
		}
	}
	if a.proto.PTrail > 0 {
		out = append(out, a.proto.PTrail)
	}
	return out
}

// transmit writes pulse timings to the LIRC device as little-endian
// 32-bit integers, after selecting pulse mode and the carrier.
func (a *LIRC) transmit(code uint32) error {
	pulses := a.pulses(code)

	fd, err := syscall.Open(a.proto.Device, syscall.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open device %s: %w", a.proto.Device, err)
	}
	defer syscall.Close(fd)

	_, _, _ = syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(lircSetSendMode), uintptr(lircModePulse))
	if a.proto.Frequency > 0 {
		// Some devices reject the carrier ioctl but transmit fine.
		_, _, _ = syscall.Syscall(syscall.SYS_IOCTL, uintptr(fd), uintptr(lircSetSendCarrier), uintptr(a.proto.Frequency))
	}

	buf := make([]byte, len(pulses)*bytesPerPulse)
	for i, p := range pulses {
		off := i * bytesPerPulse
		buf[off] = byte(p)
		buf[off+1] = byte(p >> 8)
		buf[off+2] = byte(p >> 16)
		buf[off+3] = byte(p >> 24)
	}

	if n, err := syscall.Write(fd, buf); err != nil {
		return fmt.Errorf("write failed after %d bytes: %w", n, err)
	}
	return nil
}
