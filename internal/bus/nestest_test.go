package bus

import (
	"bufio"
	"errors"
	"io/fs"
	"os"
	"strings"
	"testing"

	"nesgo/internal/cartridge"
)

// cycField extracts the "CYC:n" column of a trace line.
func cycField(line string) string {
	i := strings.LastIndex(line, "CYC:")
	if i < 0 {
		return ""
	}
	return strings.TrimRight(line[i:], "\r\n ")
}

// TestGoldenLog replays the standard CPU verification ROM in its automated
// mode and compares every retired instruction against the reference log.
// Drop nestest.nes and nestest.log into testdata/ to enable it.
func TestGoldenLog(t *testing.T) {
	cart, err := cartridge.LoadFromFile("testdata/nestest.nes")
	if errors.Is(err, fs.ErrNotExist) {
		t.Skip("testdata/nestest.nes not present")
	}
	if err != nil {
		t.Fatal(err)
	}
	logFile, err := os.Open("testdata/nestest.log")
	if errors.Is(err, fs.ErrNotExist) {
		t.Skip("testdata/nestest.log not present")
	}
	if err != nil {
		t.Fatal(err)
	}
	defer logFile.Close()

	console := NewConsole(cart)
	console.CPU().PC = 0xC000 // automated mode entry point

	scanner := bufio.NewScanner(logFile)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		want := strings.TrimRight(scanner.Text(), "\r")
		if len(want) < 73 {
			continue
		}
		got := console.TraceLine()

		// The reference disassembly column carries memory annotations the
		// tracer does not reproduce, so compare PC, the register block and
		// the cycle counter.
		if got[:4] != want[:4] || got[48:73] != want[48:73] ||
			cycField(got) != cycField(want) {
			t.Fatalf("diverged at line %d:\n got %s\nwant %s", lineNo, got, want)
		}

		if _, err := console.Step(); err != nil {
			t.Fatalf("line %d: %v", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatal(err)
	}
}
