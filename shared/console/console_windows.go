//go:build windows

package console

import (
	"os"

	"golang.org/x/sys/windows"
)

// IsBlueBackground reports whether the console screen buffer uses a
// blue background, so the report tables can avoid blue-on-blue output.
func IsBlueBackground() bool {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(os.Stdout.Fd()), &info); err != nil {
		return false
	}

	const backgroundBlue = 0x0010
	return info.Attributes&backgroundBlue != 0
}
