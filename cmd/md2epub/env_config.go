package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
)

// envPrefix starts every variable the CLI reads.
const envPrefix = "MD2EPUB_"

// dotEnvFile is read from the project directory when present.
const dotEnvFile = ".env"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without touching the book config.
type envConfig struct {
	ConfigPath string // MD2EPUB_CONFIG: config file path
	Dir        string // MD2EPUB_DIR: project directory
	OutputDir  string // MD2EPUB_OUTPUT_DIR: where the .epub is written
	BuildDir   string // MD2EPUB_BUILD_DIR: scratch tree location
	LogFormat  string // MD2EPUB_LOG_FORMAT: console or json
	LogLevel   string // MD2EPUB_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid MD2EPUB_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"MD2EPUB_CONFIG":     true,
	"MD2EPUB_DIR":        true,
	"MD2EPUB_OUTPUT_DIR": true,
	"MD2EPUB_BUILD_DIR":  true,
	"MD2EPUB_LOG_FORMAT": true,
	"MD2EPUB_LOG_LEVEL":  true,
}

// envSource looks variables up in the process environment first, then in
// the values read from a .env file. Real variables always win.
type envSource struct {
	getenv  func(string) string
	environ func() []string
	dotenv  map[string]string
}

// newEnvSource reads dir/.env if it exists. A malformed file is an error;
// a missing one is not.
func newEnvSource(env *Environment, dir string) (*envSource, error) {
	src := &envSource{getenv: env.Getenv, environ: env.Environ, dotenv: map[string]string{}}
	if dir == "" {
		dir = "."
	}
	p := filepath.Join(dir, dotEnvFile)
	if _, err := os.Stat(p); err != nil {
		return src, nil
	}
	values, err := godotenv.Read(p)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUsage, p, err)
	}
	src.dotenv = values
	return src, nil
}

// Get returns the value of name.
func (s *envSource) Get(name string) string {
	if v := s.getenv(name); v != "" {
		return v
	}
	return s.dotenv[name]
}

// names returns every MD2EPUB_* name set in either source, sorted.
func (s *envSource) names() []string {
	seen := map[string]bool{}
	for _, kv := range s.environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	for name := range s.dotenv {
		if strings.HasPrefix(name, envPrefix) {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// loadEnvConfig reads configuration from environment variables.
// Returns a struct with all recognized MD2EPUB_* values.
func loadEnvConfig(s *envSource) *envConfig {
	return &envConfig{
		ConfigPath: s.Get("MD2EPUB_CONFIG"),
		Dir:        s.Get("MD2EPUB_DIR"),
		OutputDir:  s.Get("MD2EPUB_OUTPUT_DIR"),
		BuildDir:   s.Get("MD2EPUB_BUILD_DIR"),
		LogFormat:  s.Get("MD2EPUB_LOG_FORMAT"),
		LogLevel:   s.Get("MD2EPUB_LOG_LEVEL"),
	}
}

// warnUnknownEnvVars logs warnings for unrecognized MD2EPUB_* variables.
// Helps catch typos like MD2EPUB_OUTPUTDIR instead of MD2EPUB_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer, s *envSource) {
	for _, name := range s.names() {
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig fills the flag values that were not set on the command
// line. Precedence: flags > environment > defaults.
func applyEnvConfig(env *envConfig, f *commonFlags) {
	if f.config == "" {
		f.config = env.ConfigPath
	}
	if f.outputDir == "" {
		f.outputDir = env.OutputDir
	}
	if f.buildDir == "" {
		f.buildDir = env.BuildDir
	}
	if f.logFormat == "" {
		f.logFormat = env.LogFormat
	}
	if f.logLevel == "" {
		f.logLevel = env.LogLevel
	}
}
