package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/consultant.txt
var consultantRaw string

// Consultant returns the system prompt for the property consultant role.
// Safe to call concurrently; the embed is compile-time.
func Consultant() string {
	return strings.TrimSpace(consultantRaw)
}
