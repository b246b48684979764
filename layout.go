package md2epub

import (
	"path/filepath"

	"github.com/alnah/go-md2epub/internal/config"
)

// Default directory names inside a project.
const (
	SourceDirName   = "src"
	TemplateDirName = "templates"
	AssetDirName    = "assets"
	BuildDirName    = "temp"
	ImagesDirName   = "images"
	FontsDirName    = "fonts"
)

// DefaultVersion is the version built when none is requested.
const DefaultVersion = config.DefaultVersion

// Layout locates the inputs and outputs of a build.
// Relative paths are taken as given; DefaultLayout roots them at a project
// directory.
type Layout struct {
	Dir         string // project directory
	ConfigPath  string // empty: search Dir for config.yml, config.yaml, config.toml
	SourceDir   string // chapters and static content
	TemplateDir string // template overrides; missing means embedded defaults only
	AssetDir    string // container file overrides
	BuildDir    string // scratch tree, deleted and recreated every build
	OutputDir   string // where the .epub is written
}

// DefaultLayout returns the conventional layout of the project in dir.
func DefaultLayout(dir string) Layout {
	if dir == "" {
		dir = "."
	}
	return Layout{
		Dir:         dir,
		SourceDir:   filepath.Join(dir, SourceDirName),
		TemplateDir: filepath.Join(dir, TemplateDirName),
		AssetDir:    filepath.Join(dir, AssetDirName),
		BuildDir:    filepath.Join(dir, BuildDirName),
		OutputDir:   dir,
	}
}

// withDefaults fills the empty fields of l from DefaultLayout(l.Dir).
func (l Layout) withDefaults() Layout {
	d := DefaultLayout(l.Dir)
	if l.Dir == "" {
		l.Dir = d.Dir
	}
	if l.SourceDir == "" {
		l.SourceDir = d.SourceDir
	}
	if l.TemplateDir == "" {
		l.TemplateDir = d.TemplateDir
	}
	if l.AssetDir == "" {
		l.AssetDir = d.AssetDir
	}
	if l.BuildDir == "" {
		l.BuildDir = d.BuildDir
	}
	if l.OutputDir == "" {
		l.OutputDir = d.OutputDir
	}
	return l
}
