package search

import (
	"reflect"
	"testing"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		{"identical empty", "", "", 0},
		{"identical word", "lattice", "lattice", 0},
		{"empty a", "", "hello", 5},
		{"empty b", "hello", "", 5},
		{"one substitution", "cat", "bat", 1},
		{"one insertion", "cat", "cart", 1},
		{"one deletion", "cart", "cat", 1},
		{"kitten to sitting", "kitten", "sitting", 3},
		{"common typo", "lattice", "lattise", 1},
		{"case difference", "Hello", "hello", 1},
		{"unicode substitution", "café", "cafe", 1},
		{"transposition counts twice", "ab", "ba", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Levenshtein(tt.a, tt.b)
			if result != tt.expected {
				t.Errorf("Levenshtein(%q, %q) = %d, want %d", tt.a, tt.b, result, tt.expected)
			}
			if reverse := Levenshtein(tt.b, tt.a); reverse != result {
				t.Errorf("asymmetric: %d vs %d", result, reverse)
			}
		})
	}
}

func TestQueryWords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"plain words", "lattice pairing", []string{"lattice", "pairing"}},
		{"operators dropped", "lattice AND pairing OR sieve", []string{"lattice", "pairing", "sieve"}},
		{"field prefix stripped", "author:Gentry", []string{"gentry"}},
		{"id colon stripped to last part", "id:C:Groth16", []string{"groth16"}},
		{"quotes ignored", `"zero knowledge"`, []string{"zero", "knowledge"}},
		{"lower-cased", "LATTICE", []string{"lattice"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryWords(tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("queryWords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestLengthGap(t *testing.T) {
	if lengthGap("ab", "abcd") != 2 || lengthGap("abcd", "ab") != 2 {
		t.Error("lengthGap must be symmetric")
	}
	if lengthGap("ab", "ab") != 0 {
		t.Error("identical lengths gap 0")
	}
}
