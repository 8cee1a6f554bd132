// Package irq defines the interface external interrupt generators
// (mappers, DMA controllers, APU frame counters) implement so a host can
// drive a core's pin.Pinout lines without coupling those generators to
// the core itself.
package irq

// Source is something that can assert an interrupt or hold line. The
// host polls Raised() once per tick and uses the result to set the
// corresponding field (IRQ, NMI, RDY) on the pin.Pinout it passes into
// Tick. The core itself never talks to a Source directly — pin-level
// separation means the only thing the core ever samples is the Pinout.
type Source interface {
	// Raised reports whether this source currently holds its line
	// active. For level-sensed lines (IRQ, RDY) the host should call
	// this every tick; for the edge-sensed NMI line the host only
	// presents the level, and the core's Tick latches the assertion edge
	// itself (see pin.Pinout.NMI and cpu.Context.NMIDetected).
	Raised() bool
}

// Level is the simplest Source: a manually driven level held by the
// caller, useful for tests and for devices (OAM DMA, DMC DMA) that just
// need to assert RDY for a known number of cycles.
type Level struct {
	held bool
}

// Raised implements Source.
func (l *Level) Raised() bool { return l.held }

// Set raises or lowers the line.
func (l *Level) Set(held bool) { l.held = held }
