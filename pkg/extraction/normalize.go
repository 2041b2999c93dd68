package extraction

import "strings"

// Normalize cleans a raw service result for display.
//
// A nil or empty raw string becomes absent (nil). Any other value is trimmed
// and kept even when trimming leaves an empty string, so callers can tell a
// blank extraction apart from a missing one. Confidence is copied as is.
func Normalize(raw RawResult) Result {
	conf := make(Confidence, len(raw.Confidence))
	for k, v := range raw.Confidence {
		conf[Field(k)] = v
	}

	return Result{
		Name:       cleanString(raw.Name),
		Phone:      cleanString(raw.Phone),
		Address:    cleanString(raw.Address),
		Role:       cleanString(raw.Role),
		Confidence: conf,
	}
}

func cleanString(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	return &trimmed
}
