package types

import "fmt"

// Bytes is a uint64 wrapper representing a memory size in bytes.
type Bytes uint64

// Humanized returns a human-readable string with automatic binary unit
// (B, KiB, MiB, GiB, TiB).
func (b Bytes) Humanized() string {
	v := float64(b)
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.2f TiB", v/(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.2f GiB", v/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.2f MiB", v/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.2f KiB", v/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// String implements fmt.Stringer so sizes humanize in logs and templates.
func (b Bytes) String() string { return b.Humanized() }

// KiB returns the size in kibibytes.
func (b Bytes) KiB() float64 { return float64(b) / (1 << 10) }

// MiB returns the size in mebibytes.
func (b Bytes) MiB() float64 { return float64(b) / (1 << 20) }

// GiB returns the size in gibibytes.
func (b Bytes) GiB() float64 { return float64(b) / (1 << 30) }
