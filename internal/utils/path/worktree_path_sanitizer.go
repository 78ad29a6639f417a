package pathutils

import (
	"path/filepath"
	"strings"
)

// WorktreePathSanitizer normalizes working tree and artifact path inputs consistently across commands.
type WorktreePathSanitizer struct {
	homeExpander *HomeExpander
}

// NewWorktreePathSanitizer constructs a WorktreePathSanitizer with default behavior.
func NewWorktreePathSanitizer() *WorktreePathSanitizer {
	return NewWorktreePathSanitizerWithExpander(nil)
}

// NewWorktreePathSanitizerWithExpander constructs a WorktreePathSanitizer using the provided expander.
func NewWorktreePathSanitizerWithExpander(homeExpander *HomeExpander) *WorktreePathSanitizer {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}

	return &WorktreePathSanitizer{homeExpander: resolvedExpander}
}

// Sanitize trims whitespace, expands the user's home directory, and cleans the candidate path.
// An empty or whitespace-only candidate resolves to fallbackPath.
func (sanitizer *WorktreePathSanitizer) Sanitize(candidatePath string, fallbackPath string) string {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		trimmedCandidate = strings.TrimSpace(fallbackPath)
	}
	if len(trimmedCandidate) == 0 {
		return ""
	}

	expander := sanitizer.resolveExpander()
	return filepath.Clean(expander.Expand(trimmedCandidate))
}

func (sanitizer *WorktreePathSanitizer) resolveExpander() *HomeExpander {
	if sanitizer == nil || sanitizer.homeExpander == nil {
		return NewHomeExpander()
	}
	return sanitizer.homeExpander
}
