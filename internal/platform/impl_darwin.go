//go:build darwin
// +build darwin

package platform

import "os/exec"

func openBrowser(url string) error {
	return exec.Command("open", url).Start()
}
