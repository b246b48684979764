package config

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/alnah/go-md2epub/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrUnsupportedType = errors.New("unsupported config file type")
	ErrMissingField    = errors.New("missing required config field")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidFileName = errors.New("invalid epub file name")
	ErrInvalidPath     = errors.New("invalid content path")
	ErrInvalidVersion  = errors.New("invalid version name")
	ErrUnknownVersion  = errors.New("unknown version")
)

// DefaultVersion is the version built when none is requested.
const DefaultVersion = "main"

// FileNames lists the config file names searched in a project directory,
// in priority order.
var FileNames = []string{"config.yml", "config.yaml", "config.toml"}

// Field length limits.
const (
	MaxFileNameLength    = 255
	MaxTitleLength       = 500
	MaxLanguageLength    = 35 // BCP 47 practical limit
	MaxIdentifierLength  = 255
	MaxNameLength        = 200
	MaxDescriptionLength = 4000
	MaxDateLength        = 50
	MaxContentEntries    = 2000
)

var versionNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Config holds the book configuration.
// Raw keeps every key of the source document for template rendering.
type Config struct {
	EPUBFileName string             `yaml:"epub_file_name" toml:"epub_file_name"`
	Title        string             `yaml:"title" toml:"title"`
	Language     string             `yaml:"language" toml:"language"`
	Identifier   string             `yaml:"identifier" toml:"identifier"`
	Author       string             `yaml:"author" toml:"author"`
	Publisher    string             `yaml:"publisher" toml:"publisher"`
	Rights       string             `yaml:"rights" toml:"rights"`
	Description  string             `yaml:"description" toml:"description"`
	Date         string             `yaml:"date" toml:"date"`
	Order        []string           `yaml:"order" toml:"order"`
	CoverImage   string             `yaml:"cover_image" toml:"cover_image"`
	Versions     map[string]Version `yaml:"versions" toml:"versions"`
	Nav          *bool              `yaml:"nav" toml:"nav"`
	Markdown     MarkdownConfig     `yaml:"markdown" toml:"markdown"`

	Raw  map[string]any `yaml:"-" toml:"-"`
	Path string         `yaml:"-" toml:"-"`
}

// Version is a named variant of the book.
type Version struct {
	Contents   []string `yaml:"contents" toml:"contents"`
	CoverImage string   `yaml:"cover_image" toml:"cover_image"`
}

// MarkdownConfig tunes chapter conversion.
type MarkdownConfig struct {
	RawHTML        *bool  `yaml:"raw_html" toml:"raw_html"`               // default true
	HighlightStyle string `yaml:"highlight_style" toml:"highlight_style"` // chroma style, empty = off
	HardWraps      bool   `yaml:"hard_wraps" toml:"hard_wraps"`
}

// Edition is the resolved content list and cover for one version.
// Implicit is set for flat configs without an order list; the caller
// discovers the chapters by scanning the source directory.
type Edition struct {
	Version    string
	Contents   []string
	CoverImage string
	Implicit   bool
}

// NavEnabled reports whether the navigation document is rendered.
func (c *Config) NavEnabled() bool {
	return c.Nav == nil || *c.Nav
}

// AllowRawHTML reports whether raw HTML in Markdown is passed through.
func (m MarkdownConfig) AllowRawHTML() bool {
	return m.RawHTML == nil || *m.RawHTML
}

// Versioned reports whether the config declares named versions.
func (c *Config) Versioned() bool {
	return len(c.Versions) > 0
}

// VersionNames returns the declared version names, sorted.
func (c *Config) VersionNames() []string {
	if !c.Versioned() {
		return []string{DefaultVersion}
	}
	names := make([]string, 0, len(c.Versions))
	for name := range c.Versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Edition resolves contents and cover image for the named version.
// An empty name selects DefaultVersion.
func (c *Config) Edition(version string) (Edition, error) {
	if version == "" {
		version = DefaultVersion
	}

	if !c.Versioned() {
		if version != DefaultVersion {
			return Edition{}, fmt.Errorf("%w: %q (config has no versions, only %q)", ErrUnknownVersion, version, DefaultVersion)
		}
		return Edition{
			Version:    version,
			Contents:   append([]string(nil), c.Order...),
			CoverImage: c.CoverImage,
			Implicit:   len(c.Order) == 0,
		}, nil
	}

	v, ok := c.Versions[version]
	if !ok {
		return Edition{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownVersion, version, strings.Join(c.VersionNames(), ", "))
	}
	cover := v.CoverImage
	if cover == "" {
		cover = c.CoverImage
	}
	return Edition{
		Version:    version,
		Contents:   append([]string(nil), v.Contents...),
		CoverImage: cover,
	}, nil
}

// Validate checks required fields, lengths, and content paths.
// Called automatically by LoadConfig, but available for callers that
// construct a Config in code.
func (c *Config) Validate() error {
	if c.EPUBFileName == "" {
		return fmt.Errorf("%w: epub_file_name", ErrMissingField)
	}
	if err := validateFieldLength("epub_file_name", c.EPUBFileName, MaxFileNameLength); err != nil {
		return err
	}
	if strings.ContainsAny(c.EPUBFileName, `/\`) || !strings.HasSuffix(strings.ToLower(c.EPUBFileName), ".epub") ||
		len(c.EPUBFileName) == len(".epub") {
		return fmt.Errorf("%w: %q (want a bare name ending in .epub)", ErrInvalidFileName, c.EPUBFileName)
	}

	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"title", c.Title, MaxTitleLength},
		{"language", c.Language, MaxLanguageLength},
		{"identifier", c.Identifier, MaxIdentifierLength},
		{"author", c.Author, MaxNameLength},
		{"publisher", c.Publisher, MaxNameLength},
		{"rights", c.Rights, MaxDescriptionLength},
		{"description", c.Description, MaxDescriptionLength},
		{"date", c.Date, MaxDateLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateContents("order", c.Order); err != nil {
		return err
	}
	if err := validateRelPath("cover_image", c.CoverImage); err != nil {
		return err
	}

	for name, v := range c.Versions {
		if !versionNamePattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrInvalidVersion, name)
		}
		field := "versions." + name
		if len(v.Contents) == 0 {
			return fmt.Errorf("%w: %s.contents", ErrMissingField, field)
		}
		if err := validateContents(field+".contents", v.Contents); err != nil {
			return err
		}
		if err := validateRelPath(field+".cover_image", v.CoverImage); err != nil {
			return err
		}
	}

	return nil
}

func validateContents(field string, contents []string) error {
	if len(contents) > MaxContentEntries {
		return fmt.Errorf("%w: %s (%d entries, max %d)", ErrFieldTooLong, field, len(contents), MaxContentEntries)
	}
	for i, p := range contents {
		name := fmt.Sprintf("%s[%d]", field, i)
		if p == "" {
			return fmt.Errorf("%w: %s is empty", ErrInvalidPath, name)
		}
		if err := validateRelPath(name, p); err != nil {
			return err
		}
	}
	return nil
}

// validateRelPath rejects absolute paths and parent traversal.
// Empty values are accepted (optional fields).
func validateRelPath(field, p string) error {
	if p == "" {
		return nil
	}
	slashed := filepath.ToSlash(p)
	if path.IsAbs(slashed) || filepath.IsAbs(p) {
		return fmt.Errorf("%w: %s: %q is absolute", ErrInvalidPath, field, p)
	}
	for _, seg := range strings.Split(slashed, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %s: %q escapes the source directory", ErrInvalidPath, field, p)
		}
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// FindConfig returns the first config file from FileNames present in dir.
func FindConfig(dir string) (string, error) {
	tried := make([]string, 0, len(FileNames))
	for _, name := range FileNames {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p, nil
		}
		tried = append(tried, p)
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// LoadConfig loads and validates the config file at configPath.
// The format is chosen by extension: .yml/.yaml or .toml.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(data, filepath.Ext(configPath))
	if err != nil {
		return nil, err
	}
	cfg.Path = configPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes config data. ext selects the format (".yml", ".yaml", ".toml").
// The result is not validated.
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config

	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		if err := yamlutil.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		raw, err := yamlutil.UnmarshalMap(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		cfg.Raw = raw
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		raw := map[string]any{}
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		cfg.Raw = raw
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}

	return &cfg, nil
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
