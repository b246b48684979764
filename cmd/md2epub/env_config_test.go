package main

// Notes:
// - envSource: we test lookup order (process environment, then .env) and
//   that a malformed .env file is a usage error.
// - loadEnvConfig: we test all six MD2EPUB_* variables.
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that flags win over the environment.
// The environment is injected, so these tests run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestEnvSource - Lookup order and .env parsing
// ---------------------------------------------------------------------------

func TestEnvSource_Get(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dotenv := "MD2EPUB_LOG_LEVEL=debug\nMD2EPUB_BUILD_DIR=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(dir, dotEnvFile), []byte(dotenv), 0o644); err != nil {
		t.Fatal(err)
	}

	env, _, _ := testEnv(map[string]string{"MD2EPUB_BUILD_DIR": "from-env"})
	src, err := newEnvSource(env, dir)
	if err != nil {
		t.Fatalf("newEnvSource() error = %v", err)
	}

	if got := src.Get("MD2EPUB_BUILD_DIR"); got != "from-env" {
		t.Errorf("Get(BUILD_DIR) = %q, want process environment to win", got)
	}
	if got := src.Get("MD2EPUB_LOG_LEVEL"); got != "debug" {
		t.Errorf("Get(LOG_LEVEL) = %q, want .env value", got)
	}
	if got := src.Get("MD2EPUB_CONFIG"); got != "" {
		t.Errorf("Get(CONFIG) = %q, want empty", got)
	}
}

func TestEnvSource_NoDotEnv(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(nil)
	src, err := newEnvSource(env, t.TempDir())
	if err != nil {
		t.Fatalf("newEnvSource() error = %v", err)
	}
	if len(src.names()) != 0 {
		t.Errorf("names() = %v, want none", src.names())
	}
}

func TestEnvSource_MalformedDotEnv(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, dotEnvFile), []byte("MD2EPUB_DIR='unterminated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	env, _, _ := testEnv(nil)
	if _, err := newEnvSource(env, dir); !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(map[string]string{
		"MD2EPUB_CONFIG":     "/book/config.toml",
		"MD2EPUB_DIR":        "/book",
		"MD2EPUB_OUTPUT_DIR": "/dist",
		"MD2EPUB_BUILD_DIR":  "/tmp/scratch",
		"MD2EPUB_LOG_FORMAT": "json",
		"MD2EPUB_LOG_LEVEL":  "warn",
	})
	src, err := newEnvSource(env, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg := loadEnvConfig(src)

	want := envConfig{
		ConfigPath: "/book/config.toml",
		Dir:        "/book",
		OutputDir:  "/dist",
		BuildDir:   "/tmp/scratch",
		LogFormat:  "json",
		LogLevel:   "warn",
	}
	if *cfg != want {
		t.Errorf("loadEnvConfig() = %+v, want %+v", *cfg, want)
	}
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		vars     map[string]string
		wantWarn []string
	}{
		{"known vars", map[string]string{"MD2EPUB_DIR": "x", "MD2EPUB_LOG_LEVEL": "debug"}, nil},
		{"typo", map[string]string{"MD2EPUB_OUTPUTDIR": "x"}, []string{"MD2EPUB_OUTPUTDIR"}},
		{"other prefixes ignored", map[string]string{"HOME": "/root", "MD2PDF_STYLE": "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, _ := testEnv(tt.vars)
			src, err := newEnvSource(env, t.TempDir())
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			warnUnknownEnvVars(&buf, src)

			if len(tt.wantWarn) == 0 && buf.Len() != 0 {
				t.Errorf("unexpected warning: %q", buf.String())
			}
			for _, name := range tt.wantWarn {
				if !strings.Contains(buf.String(), name) {
					t.Errorf("warning %q should name %s", buf.String(), name)
				}
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Flags win over the environment
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	env := &envConfig{
		ConfigPath: "env.yml",
		OutputDir:  "env-out",
		BuildDir:   "env-build",
		LogFormat:  "json",
		LogLevel:   "debug",
	}
	f := &commonFlags{config: "flag.yml", logLevel: "error"}
	applyEnvConfig(env, f)

	checks := []struct {
		name, got, want string
	}{
		{"config", f.config, "flag.yml"},
		{"outputDir", f.outputDir, "env-out"},
		{"buildDir", f.buildDir, "env-build"},
		{"logFormat", f.logFormat, "json"},
		{"logLevel", f.logLevel, "error"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}
}
