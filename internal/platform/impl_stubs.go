//go:build !windows && !darwin && !linux
// +build !windows,!darwin,!linux

package platform

import "runtime"

func openBrowser(string) error {
	return &UnsupportedPlatformError{OS: runtime.GOOS}
}
