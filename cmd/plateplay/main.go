package main

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var version = "dev"

var logo = []string{
	"   ____  _       _       ____  _              ",
	"  |  _ \\| | __ _| |_ ___|  _ \\| | __ _ _   _  ",
	"  | |_) | |/ _` | __/ _ \\ |_) | |/ _` | | | | ",
	"  |  __/| | (_| | ||  __/  __/| | (_| | |_| | ",
	"  |_|   |_|\\__,_|\\__\\___|_|   |_|\\__,_|\\__, | ",
	"                                       |___/  ",
}

// printBanner draws the PlatePlay logo in a box
func printBanner(w io.Writer) {
	width := 0
	for _, line := range logo {
		if len(line) > width {
			width = len(line)
		}
	}
	border := strings.Repeat("═", width+2)

	fmt.Fprintf(w, "\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		fmt.Fprintf(w, "  %s║ %s%-*s%s ║%s\n", cyan, yellow, width, line, cyan, reset)
	}
	fmt.Fprintf(w, "  %s╚%s╝%s\n\n", cyan, border, reset)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
