// Package bus defines the memory-access abstraction a 65xx core uses to
// read and write the outside world, and a reference implementation
// used by tests and example front ends. The real memory
// map (mirroring, mapper banking, MMIO side effects) is the host's job;
// this package only defines the contract and a flat-RAM reference.
package bus

import "math/rand"

// Bus is the only channel through which the core observes or mutates
// anything outside its own registers. Both operations are synchronous
// (complete within the call) and infallible: a host that wants to model
// open-bus or faulted reads does so by returning a value, not an error.
type Bus interface {
	// Read returns the byte currently at addr. The core never caches a
	// read; every logical read is exactly one call here.
	Read(addr uint16) uint8
	// Write stores val at addr.
	Write(addr uint16, val uint8)
}

// Bank extends Bus with the bookkeeping a chain of memory controllers
// needs: a reference to whatever sits above it (for open-bus reads that
// fall through to the last thing that actually drove the data bus) and
// the last value that bank itself put on the bus.
type Bank interface {
	Bus
	// PowerOn (re)initializes the bank's storage. Some implementations
	// randomize it, matching real SRAM/DRAM power-on behavior.
	PowerOn()
	// Parent returns the enclosing Bank in a mapping chain, or nil if
	// this is the outermost one.
	Parent() Bank
	// DatabusVal returns the last value this bank put on the data bus.
	DatabusVal() uint8
}

// LatestDatabusVal walks up a Bank chain to the outermost parent and
// returns its DatabusVal. Useful for modeling reads from unmapped
// addresses, which on real hardware return whatever was last driven onto
// the bus rather than a fixed value.
func LatestDatabusVal(b Bank) uint8 {
	for b.Parent() != nil {
		b = b.Parent()
	}
	return b.DatabusVal()
}

// FlatRAM is a reference Bank implementation: a single contiguous, fully
// addressable 64K array with no mirroring or mapping. Useful for unit
// tests and for standalone tools (disassemblers, functional-test
// harnesses) that don't need a real NES memory map.
type FlatRAM struct {
	mem        [65536]uint8
	parent     Bank
	databusVal uint8
}

// NewFlatRAM returns a FlatRAM, optionally chained under parent (nil for
// a standalone bank).
func NewFlatRAM(parent Bank) *FlatRAM {
	return &FlatRAM{parent: parent}
}

// Read implements Bus.
func (r *FlatRAM) Read(addr uint16) uint8 {
	v := r.mem[addr]
	r.databusVal = v
	return v
}

// Write implements Bus.
func (r *FlatRAM) Write(addr uint16, val uint8) {
	r.databusVal = val
	r.mem[addr] = val
}

// PowerOn implements Bank by randomizing contents, matching real SRAM
// power-on state (software relying on zeroed RAM at boot is already
// relying on undefined behavior).
func (r *FlatRAM) PowerOn() {
	for i := range r.mem {
		r.mem[i] = uint8(rand.Intn(256))
	}
}

// Parent implements Bank.
func (r *FlatRAM) Parent() Bank { return r.parent }

// DatabusVal implements Bank.
func (r *FlatRAM) DatabusVal() uint8 { return r.databusVal }
