package config

import "github.com/hyperjump/bibfind/internal/models"

// Defaults mirror the layout of a cryptobib checkout under the home
// directory; relative paths are expanded against it.
const (
	defaultBibPath    = "cryptobib/crypto.bib"
	defaultAbbrevName = "abbrev3.bib"
	defaultIndexDir   = "cryptobib/cbindex"
	defaultPager      = "less -RX"
)

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Bib.Path == "" {
		cfg.Bib.Path = defaultBibPath
	}
	if cfg.Bib.AbbrevName == "" {
		cfg.Bib.AbbrevName = defaultAbbrevName
	}
	if cfg.Bib.PreprintPrefixes == nil {
		cfg.Bib.PreprintPrefixes = []string{"EPRINT"}
	}
	if cfg.Index.Dir == "" {
		cfg.Index.Dir = defaultIndexDir
	}
	if cfg.Search.Limit == 0 {
		cfg.Search.Limit = models.DefaultSearchLimit
	}
	if cfg.Render.Width == 0 {
		cfg.Render.Width = 80
	}
	if cfg.Render.Indent == 0 {
		cfg.Render.Indent = 8
	}
	if cfg.Render.Pager == "" {
		cfg.Render.Pager = defaultPager
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}
