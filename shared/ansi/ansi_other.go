//go:build !windows

package ansi

// EnableANSI is a no-op outside Windows; the escape sequences the
// analysis tables emit work without console mode changes.
func EnableANSI() {
}
