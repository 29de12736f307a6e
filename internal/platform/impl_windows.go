//go:build windows
// +build windows

package platform

import "os/exec"

func openBrowser(url string) error {
	// The empty title argument keeps start from treating url as a window title
	return exec.Command("cmd", "/c", "start", "", url).Start()
}
