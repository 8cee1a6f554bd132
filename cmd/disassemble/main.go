// disassemble loads a flat binary image into a FlatRAM bus and
// disassembles it to stdout starting at the given PC, continuing until
// the loaded bytes are exhausted.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/retrosix/rp2a03core/bus"
	"github.com/retrosix/rp2a03core/trace"
)

var (
	startPC = flag.Int("start_pc", 0x0000, "PC value to start disassembling")
	offset  = flag.Int("offset", 0x0000, "offset into RAM to load the file at")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		log.Fatalf("usage: %s [-start_pc <pc> -offset <offset>] <filename>", os.Args[0])
	}
	fn := flag.Args()[0]

	data, err := os.ReadFile(fn)
	if err != nil {
		log.Fatalf("can't open %s: %v", fn, err)
	}
	max := 1<<16 - *offset
	if len(data) > max {
		log.Printf("%d bytes at offset %d too long, truncating to 64K", len(data), *offset)
		data = data[:max]
	}

	ram := bus.NewFlatRAM(nil)
	for i, v := range data {
		ram.Write(uint16(*offset+i), v)
	}

	// Disassemble until the loaded bytes are exhausted; PC may wrap
	// before that happens, so track progress by byte count rather than
	// comparing addresses.
	pc := uint16(*startPC)
	cnt := 0
	for cnt < len(data) {
		text, size := trace.Step(pc, ram)
		fmt.Printf("%04X  %s\n", pc, text)
		pc += uint16(size)
		cnt += size
	}
}
