package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/fredcamaral/deckgen/internal/domain/ports"
)

// Launcher opens the web UI in a local browser
type Launcher struct {
	preferred string
	browsers  []Browser
	lookPath  func(string) (string, error)
}

// Browser is one way of opening a URL on this platform
type Browser struct {
	Name    string
	Command string
	Args    func(url string) []string
}

// NewLauncher creates a launcher. preferred names a browser from
// [browser].browser; "" or "default" uses the system default.
func NewLauncher(preferred string) *Launcher {
	return &Launcher{
		preferred: preferred,
		browsers:  platformBrowsers(runtime.GOOS),
		lookPath:  exec.LookPath,
	}
}

// Launch opens url unless noOpen is set
func (l *Launcher) Launch(url string, noOpen bool) error {
	if noOpen {
		return nil
	}

	browser, err := l.selectBrowser()
	if err != nil {
		return fmt.Errorf("browser selection: %w", err)
	}

	cmd := exec.Command(browser.Command, browser.Args(url)...) // #nosec G204 - command comes from the fixed platform table
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("launching %s: %w", browser.Name, err)
	}

	// Don't wait for browser to close
	go func() {
		_ = cmd.Wait()
	}()

	return nil
}

// Detect returns the name of the browser Launch would use
func (l *Launcher) Detect() (string, error) {
	browser, err := l.selectBrowser()
	if err != nil {
		return "", err
	}
	return browser.Name, nil
}

// selectBrowser returns the preferred browser when it is installed,
// otherwise the first installed one
func (l *Launcher) selectBrowser() (*Browser, error) {
	if len(l.browsers) == 0 {
		return nil, errors.New("no browsers available")
	}

	var fallback *Browser
	for i := range l.browsers {
		candidate := &l.browsers[i]
		if _, err := l.lookPath(candidate.Command); err != nil {
			continue
		}
		if l.wants(candidate.Name) {
			return candidate, nil
		}
		if fallback == nil {
			fallback = candidate
		}
	}

	if fallback == nil {
		return nil, errors.New("no supported browsers found on this system")
	}
	return fallback, nil
}

func (l *Launcher) wants(name string) bool {
	p := strings.ToLower(strings.TrimSpace(l.preferred))
	if p == "" || p == "default" {
		return false
	}
	return strings.ToLower(name) == p
}

func urlOnly(url string) []string { return []string{url} }

func macApp(app string) func(string) []string {
	return func(url string) []string { return []string{"-a", app, url} }
}

func platformBrowsers(goos string) []Browser {
	switch goos {
	case "darwin":
		return []Browser{
			{Name: "Default", Command: "open", Args: urlOnly},
			{Name: "Chrome", Command: "open", Args: macApp("Google Chrome")},
			{Name: "Safari", Command: "open", Args: macApp("Safari")},
			{Name: "Firefox", Command: "open", Args: macApp("Firefox")},
		}
	case "linux", "freebsd", "openbsd":
		return []Browser{
			{Name: "Default", Command: "xdg-open", Args: urlOnly},
			{Name: "Chrome", Command: "google-chrome", Args: urlOnly},
			{Name: "Chromium", Command: "chromium", Args: urlOnly},
			{Name: "Firefox", Command: "firefox", Args: urlOnly},
		}
	case "windows":
		return []Browser{
			{Name: "Default", Command: "rundll32", Args: func(url string) []string {
				return []string{"url.dll,FileProtocolHandler", url}
			}},
			{Name: "Chrome", Command: "cmd", Args: func(url string) []string {
				return []string{"/c", "start", "chrome", url}
			}},
			{Name: "Edge", Command: "cmd", Args: func(url string) []string {
				return []string{"/c", "start", "msedge", url}
			}},
		}
	default:
		return nil
	}
}

var _ ports.BrowserLauncher = (*Launcher)(nil)
