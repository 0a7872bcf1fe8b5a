// Command after8 runs a raw CHIP-8 program image.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrogolib/app"

	"github.com/jubecker/after8/emulator"
)

func main() {
	var verbose bool
	var headless bool
	var tui bool
	var gui bool

	flag.BoolVar(&verbose, "v", false, "Verbose mode")
	flag.BoolVar(&headless, "u", false, "Headless mode, no display output")
	flag.BoolVar(&tui, "tui", false, "Interactive terminal display with keypad input")
	flag.BoolVar(&gui, "gui", false, "Windowed display with keypad input")

	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %v [-v] [-u | -tui | -gui] <rom file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(1)
	}

	emu, err := emulator.New(emulator.Options{
		Verbose:  verbose,
		Headless: headless,
		Terminal: tui,
		Window:   gui,
	})
	if err != nil {
		emulator.NewLogger(verbose).Fatal(err.Error())
	}
	defer emu.Close()

	if err := emu.LoadFile(flag.Arg(0)); err != nil {
		emu.Close()
		emu.Logger.Fatal(err.Error())
	}

	if err := emu.Run(app.Context()); err != nil && !errors.Is(err, context.Canceled) {
		emu.Close()
		emu.Logger.Fatal(err.Error())
	}
}
