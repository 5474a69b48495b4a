package e2e

import (
	"os"
	"path/filepath"
)

// WriteFixtures writes the corpus bibliography files into dir and returns
// their paths in parse order: the abbreviations file first, then the main
// file, matching how configured sources are ordered.
func WriteFixtures(dir string, c *Corpus) ([]string, error) {
	abbrevPath := filepath.Join(dir, "abbrev3.bib")
	if err := os.WriteFile(abbrevPath, []byte(AbbrevText()), 0o644); err != nil {
		return nil, err
	}
	mainPath := filepath.Join(dir, "crypto.bib")
	if err := os.WriteFile(mainPath, []byte(c.BibText()), 0o644); err != nil {
		return nil, err
	}
	return []string{abbrevPath, mainPath}, nil
}
