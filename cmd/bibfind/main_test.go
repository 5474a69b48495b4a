package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/bibfind/internal/config"
	"github.com/hyperjump/bibfind/internal/models"
)

func resetFlags() {
	flagConfig, flagBib, flagIndexDir = "", "", ""
	flagDebug, flagRebuild, flagBibtex = false, false, false
	flagLimit = 0
	flagOutput = "text"
}

func TestBuildQuery(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"circuit"}, "circuit"},
		{"multiple words", []string{"garbled", "circuits"}, "garbled circuits"},
		{"quoted phrase stays one arg", []string{"garbled circuits"}, "garbled circuits"},
		{"field scope", []string{"author:groth"}, "author:groth"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildQuery(tt.args)
			if got != tt.expected {
				t.Errorf("buildQuery(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestResolveConfigPath_flagWins(t *testing.T) {
	defer resetFlags()
	flagConfig = "/custom/config.yaml"
	t.Setenv("BIBFIND_CONFIG", "/env/config.yaml")
	if got := resolveConfigPath(); got != "/custom/config.yaml" {
		t.Errorf("resolveConfigPath() = %s, want flag value", got)
	}
}

func TestResolveConfigPath_envBeforeDefault(t *testing.T) {
	defer resetFlags()
	t.Setenv("BIBFIND_CONFIG", "/env/config.yaml")
	if got := resolveConfigPath(); got != "/env/config.yaml" {
		t.Errorf("resolveConfigPath() = %s, want env value", got)
	}
}

func TestResolveConfigPath_prefersCwdConfig(t *testing.T) {
	defer resetFlags()
	t.Setenv("BIBFIND_CONFIG", "")
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	resolved := resolveConfigPath()
	// On macOS, cwd can be /private/var/... while t.TempDir() reports /var/...;
	// compare canonical paths.
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved = %s, want %s", resolved, configPath)
	}
}

func TestResolveConfigPath_fallsBackToDefault(t *testing.T) {
	defer resetFlags()
	t.Setenv("BIBFIND_CONFIG", "")
	dir := t.TempDir()
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	if got := resolveConfigPath(); got != defaultConfigPath {
		t.Errorf("resolveConfigPath() = %s, want %s", got, defaultConfigPath)
	}
}

func TestApplyFlags(t *testing.T) {
	defer resetFlags()
	flagBib = "/override/crypto.bib"
	flagIndexDir = "/override/cbindex"
	flagLimit = 50
	flagDebug = true

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	applyFlags(cfg)

	if cfg.Bib.Path != "/override/crypto.bib" {
		t.Errorf("bib path = %s", cfg.Bib.Path)
	}
	if cfg.Index.Dir != "/override/cbindex" {
		t.Errorf("index dir = %s", cfg.Index.Dir)
	}
	if cfg.Search.Limit != 50 {
		t.Errorf("limit = %d", cfg.Search.Limit)
	}
	if !cfg.Debug {
		t.Error("debug should be set")
	}
}

func TestApplyFlags_zeroValuesKeepConfig(t *testing.T) {
	defer resetFlags()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	before := *cfg
	applyFlags(cfg)
	if cfg.Bib.Path != before.Bib.Path || cfg.Search.Limit != before.Search.Limit {
		t.Errorf("unset flags should not touch config: %+v", cfg)
	}
}

func TestIndexExists(t *testing.T) {
	dir := t.TempDir()
	if !indexExists(dir) {
		t.Error("existing directory should be detected")
	}
	if indexExists(filepath.Join(dir, "missing")) {
		t.Error("missing directory should not be detected")
	}
}

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Results: []*models.SearchResult{
			{
				ID: "C:Groth16",
				Fields: map[string]string{
					"title":  "On the Size of Pairing-Based Non-interactive Arguments",
					"author": "Jens Groth",
					"year":   "2016",
				},
				Year:  2016,
				Score: 1.5,
				Rank:  1,
			},
		},
		Total: 1,
		Query: "groth",
	}
}

func TestWriteResults_json(t *testing.T) {
	defer resetFlags()
	flagOutput = "json"

	var buf bytes.Buffer
	if err := writeResults(&buf, config.Default(), sampleResponse()); err != nil {
		t.Fatal(err)
	}
	var out models.SearchResponse
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if out.Total != 1 || out.Results[0].ID != "C:Groth16" {
		t.Errorf("decoded response: %+v", out)
	}
}

func TestWriteResults_text(t *testing.T) {
	defer resetFlags()
	cfg := &config.Config{
		Search: config.SearchConfig{Limit: 30},
		Render: config.RenderConfig{Width: 80, Indent: 8},
	}

	var buf bytes.Buffer
	if err := writeResults(&buf, cfg, sampleResponse()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `Showing up to 30 results for query "groth":`) {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "C:Groth16") {
		t.Errorf("missing citation key:\n%s", out)
	}
	if !strings.Contains(out, "        Jens Groth") {
		t.Errorf("missing indented author line:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("non-terminal output should not be colored:\n%s", out)
	}
}

func TestWriteResults_textNoResults(t *testing.T) {
	defer resetFlags()
	response := &models.SearchResponse{
		Total:       0,
		Query:       "lattise",
		Suggestions: []string{"lattice"},
	}

	var buf bytes.Buffer
	if err := writeResults(&buf, config.Default(), response); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "No results found.") {
		t.Errorf("missing no-results line:\n%s", out)
	}
	if !strings.Contains(out, "Did you mean: lattice?") {
		t.Errorf("missing suggestion line:\n%s", out)
	}
}

func TestWriteResults_unknownFormat(t *testing.T) {
	defer resetFlags()
	flagOutput = "xml"
	var buf bytes.Buffer
	if err := writeResults(&buf, config.Default(), sampleResponse()); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

func TestPipePager(t *testing.T) {
	if err := pipePager("", "text"); err == nil {
		t.Error("empty pager command should error")
	}
	if err := pipePager("definitely-not-a-real-pager-xyz", "text"); err == nil {
		t.Error("missing pager binary should error")
	}
	// "true" exists everywhere and ignores stdin.
	if err := pipePager("true", "text"); err != nil {
		t.Errorf("pipePager(true) = %v", err)
	}
}
