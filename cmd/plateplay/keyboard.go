package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/abrezinsky/plateplay/internal/logger"
)

// keyboard maps single key presses to server actions
type keyboard struct {
	out          io.Writer
	log          *logger.SlogLogger
	open         func(url string) error
	dashboardURL string
}

// printHelp lists the shortcuts. nl is the line ending, "\r\n" once the
// terminal is in raw mode.
func (k *keyboard) printHelp(nl string) {
	lines := []string{
		fmt.Sprintf("%s%s  Keyboard shortcuts:%s", bold, green, reset),
		fmt.Sprintf("    %sd%s      - Open dashboard in browser", cyan, reset),
		fmt.Sprintf("    %sh%s      - Toggle HTTP request logging", cyan, reset),
		fmt.Sprintf("    %sl%s      - Cycle log level (debug → info → warn → error)", cyan, reset),
		fmt.Sprintf("    %sq%s      - Quit server", cyan, reset),
		fmt.Sprintf("    %s?%s      - Show this help", cyan, reset),
	}
	fmt.Fprint(k.out, nl+strings.Join(lines, nl)+nl+nl)
}

// handle performs the action bound to key and reports whether the server
// should shut down
func (k *keyboard) handle(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "d":
		fmt.Fprintf(k.out, "%sOpening dashboard in browser...%s\r\n", cyan, reset)
		if err := k.open(k.dashboardURL); err != nil {
			fmt.Fprintf(k.out, "%sError opening browser: %v%s\r\n", red, err, reset)
		}
	case "h":
		if k.log.IsHTTPLoggingEnabled() {
			k.log.DisableHTTPLogging()
			fmt.Fprintf(k.out, "%sHTTP logging disabled%s\r\n", yellow, reset)
		} else {
			k.log.EnableHTTPLogging()
			fmt.Fprintf(k.out, "%sHTTP logging enabled%s\r\n", green, reset)
		}
	case "l":
		level := k.log.CycleLevel()
		fmt.Fprintf(k.out, "%sLog level: %s%s%s\r\n", green, yellow, strings.ToLower(level.String()), reset)
	case "q", "\x03": // q or Ctrl+C
		fmt.Fprintf(k.out, "%sShutting down server...%s\r\n", yellow, reset)
		return true
	case "?":
		k.printHelp("\r\n")
	}
	return false
}

// listenForKeyboard puts stdin in raw mode and dispatches key presses until
// ctx is done or a quit key calls quit. The terminal is restored on return.
func listenForKeyboard(ctx context.Context, quit context.CancelFunc, k *keyboard) {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return
	}
	defer term.Restore(fd, oldState)

	keys := make(chan byte)
	go func() {
		buf := make([]byte, 1)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 0 {
				continue
			}
			select {
			case keys <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case key := <-keys:
			if k.handle(key) {
				quit()
				return
			}
		}
	}
}
