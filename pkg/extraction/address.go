package extraction

import "strings"

// NotFound is displayed for fields the service did not extract.
const NotFound = "Not found"

// FormatAddress tidies a comma separated address: segments are trimmed,
// empty segments dropped and the rest joined with ", ".
// Formatting an already formatted address returns it unchanged.
func FormatAddress(address *string) string {
	if address == nil {
		return NotFound
	}

	parts := strings.Split(*address, ",")
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
