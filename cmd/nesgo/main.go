package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"nesgo/internal/app"
	"nesgo/internal/version"
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM file")
	configPath := flag.String("config", "", "path to the JSON config file")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 60, "frames to run in headless mode")
	dumpPath := flag.String("dump", "", "headless: write the final frame as PNG")
	tracePath := flag.String("trace", "", "write a per-instruction trace log")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *romPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	a, err := app.New(app.Options{
		ROMPath:    *romPath,
		ConfigPath: *configPath,
		Headless:   *headless,
		Frames:     *frames,
		DumpPath:   *dumpPath,
		TracePath:  *tracePath,
	})
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Run(); err != nil {
		log.Fatal(err)
	}
}
