//go:build linux
// +build linux

package platform

import (
	"fmt"
	"os/exec"
)

func openBrowser(url string) error {
	// Try common Linux browser commands
	browsers := []string{"xdg-open", "x-www-browser", "firefox", "google-chrome", "chromium"}
	for _, browser := range browsers {
		if err := exec.Command(browser, url).Start(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no browser found")
}
