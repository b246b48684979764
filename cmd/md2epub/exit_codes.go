package main

import (
	"errors"
	"os"

	md2epub "github.com/alnah/go-md2epub"
	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/config"
	"github.com/alnah/go-md2epub/internal/dateutil"
	"github.com/alnah/go-md2epub/internal/epub"
	"github.com/alnah/go-md2epub/internal/pipeline"
)

// Exit codes for md2epub CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful build
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // Missing content, file not found, permission denied
	ExitVerify  = 4 // Archive failed verification
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Verification errors (exit 4)
	if errors.Is(err, md2epub.ErrVerification) {
		return ExitVerify
	}

	// I/O errors (exit 3)
	if errors.Is(err, md2epub.ErrMissingContent) ||
		errors.Is(err, md2epub.ErrNoContent) ||
		errors.Is(err, md2epub.ErrBuildLocked) ||
		errors.Is(err, epub.ErrOpen) ||
		errors.Is(err, ErrOutputDir) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrUnsupportedType) ||
		errors.Is(err, config.ErrMissingField) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidFileName) ||
		errors.Is(err, config.ErrInvalidPath) ||
		errors.Is(err, config.ErrInvalidVersion) ||
		errors.Is(err, config.ErrUnknownVersion) ||
		errors.Is(err, dateutil.ErrInvalidDateFormat) ||
		errors.Is(err, pipeline.ErrUnknownHighlightStyle) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, md2epub.ErrTemplateRender) {
		return ExitUsage
	}

	return ExitGeneral
}
