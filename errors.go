package md2epub

import (
	"errors"

	"github.com/alnah/go-md2epub/internal/assets"
	"github.com/alnah/go-md2epub/internal/config"
	"github.com/alnah/go-md2epub/internal/epub"
	"github.com/alnah/go-md2epub/internal/staging"
)

// Sentinel errors for library operations.
var (
	ErrMissingContent = errors.New("declared content file not found")
	ErrNoContent      = errors.New("book has no content files")
	ErrTemplateRender = errors.New("template rendering failed")
	ErrChapterConvert = errors.New("chapter conversion failed")
	ErrNoConfig       = errors.New("no config given")
)

// Errors re-exported from internal packages so callers can classify
// failures with errors.Is without importing them.
var (
	ErrConfigNotFound   = config.ErrConfigNotFound
	ErrConfigParse      = config.ErrConfigParse
	ErrUnknownVersion   = config.ErrUnknownVersion
	ErrTemplateNotFound = assets.ErrTemplateNotFound
	ErrBuildLocked      = staging.ErrBuildLocked
	ErrVerification     = epub.ErrVerification
)
