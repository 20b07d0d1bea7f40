package cell

import (
	"errors"
	"fmt"
	"strings"
)

// Format renders the record followed by its estimated speed.
func Format(r Record) string {
	var sb strings.Builder
	sb.WriteString("Fetched Tower Data:\n")
	for _, f := range r.Fields() {
		fmt.Fprintf(&sb, "%s: %s\n", f.Key, f.Value)
	}
	fmt.Fprintf(&sb, "\nPredicted Internet Speed for tower %s: %s (estimate)", r.CellID, FormatSpeed(Estimate(r)))
	return sb.String()
}

func FormatSpeed(mbps float64) string {
	return fmt.Sprintf("%.2f Mbps", mbps)
}

// FormatError returns the message carried by a lookup error unchanged. Other
// errors are prefixed the same way provider errors are.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	var lookupErr *LookupError
	if errors.As(err, &lookupErr) {
		return lookupErr.Error()
	}
	return "Error: " + err.Error()
}
