// Package browser opens PlatePlay pages with the desktop's default handler.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// Commander starts an external program (swapped out in tests)
type Commander interface {
	Start(name string, args ...string) error
}

type execCommander struct{}

func (execCommander) Start(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// Opener launches URLs for one platform
type Opener struct {
	cmd  Commander
	goos string
}

// New returns an Opener for the running platform
func New() *Opener {
	return NewWithCommander(execCommander{}, runtime.GOOS)
}

// NewWithCommander returns an Opener that runs goos's launcher through cmd
func NewWithCommander(cmd Commander, goos string) *Opener {
	return &Opener{cmd: cmd, goos: goos}
}

// Open validates rawURL and hands it to the platform launcher. Only http and
// https URLs are opened.
func (o *Opener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("not an http(s) URL: %q", rawURL)
	}
	name, args, err := launcher(o.goos, u.String())
	if err != nil {
		return err
	}
	return o.cmd.Start(name, args...)
}

// Open opens rawURL in the default browser
func Open(rawURL string) error {
	return New().Open(rawURL)
}

func launcher(goos, target string) (string, []string, error) {
	switch goos {
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{target}, nil
	case "darwin":
		return "open", []string{target}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}
