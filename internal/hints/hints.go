// Package hints provides actionable error hints for common build failures.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"strconv"
	"strings"
)

// maxListed caps how many names a hint spells out.
const maxListed = 5

// ForConfigNotFound returns hints for a project without a config file.
func ForConfigNotFound(dir string) string {
	return format("create " + filepath.Join(dir, "config.yml") + " or pass --config /path/to/config.yml")
}

// ForMissingContent returns hints for chapters declared but absent from src.
func ForMissingContent(srcDir string, missing []string) string {
	if len(missing) == 0 {
		return ""
	}
	return format("paths in order/contents are relative to " + srcDir + "; check " + list(missing))
}

// ForUnknownVersion returns hints listing the versions a config declares.
func ForUnknownVersion(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available versions: " + strings.Join(available, ", "))
}

// ForBuildLocked returns hints for a scratch directory held by another build.
func ForBuildLocked(lockPath string) string {
	return format("wait for the other build to finish, or remove " + lockPath + " if no build is running")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplate returns hints for template rendering errors.
func ForTemplate(templateDir string) string {
	return formatHints([]string{
		"check the override in " + templateDir,
		"delete it to fall back to the built-in template",
	})
}

// ForVerification returns hints for an archive that fails verification.
func ForVerification() string {
	return format("rebuild with -v to see every staged file, or run epubcheck for a full report")
}

// list joins at most maxListed names, noting how many were left out.
func list(names []string) string {
	if len(names) <= maxListed {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:maxListed], ", ") + " and " + strconv.Itoa(len(names)-maxListed) + " more"
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
