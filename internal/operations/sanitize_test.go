package operations

import (
	"strings"
	"testing"
)

func TestSanitizeText(t *testing.T) {
	cases := []struct{ in, want string }{
		{"hello", "hello"},
		{"a/b:c", "a_b_c"},
		{`  what? "why" <me>|`, `what_ _why_ _me__`},
		{`C:\temp\*.jpg`, "C__temp__.jpg"},
		{"\t кот  \n", "кот"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := SanitizeText(tc.in); got != tc.want {
			t.Errorf("SanitizeText(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeText_Properties(t *testing.T) {
	inputs := []string{
		"plain", " padded ", "/\\:*?\"<>|", "mixed / slash and : colon ",
		"\n\t", "ÄÖÜ * ß", "trailing?", "?leading", "a||b",
	}
	for _, in := range inputs {
		out := SanitizeText(in)
		if strings.ContainsAny(out, `/\:*?"<>|`) {
			t.Errorf("SanitizeText(%q) = %q keeps a forbidden character", in, out)
		}
		if out != strings.TrimSpace(out) {
			t.Errorf("SanitizeText(%q) = %q is not trimmed", in, out)
		}
		if again := SanitizeText(out); again != out {
			t.Errorf("SanitizeText not idempotent: %q -> %q -> %q", in, out, again)
		}
	}
}
