package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBuild_SkipsInvalidPatterns(t *testing.T) {
	rs := Build(
		[]string{"tinyurl.com"},
		[]string{`\.short\.`, `[invalid`, `^t\.co$`, "", "  "},
	)

	if rs.Empty() {
		t.Fatal("expected non-empty rule set")
	}
	// one exact domain + two valid patterns; the malformed and blank
	// tokens must not abort the rest
	if got := rs.Size(); got != 3 {
		t.Fatalf("Size() = %d, want 3", got)
	}
	if !rs.Matches("go.short.example") {
		t.Error("expected first valid pattern to survive")
	}
	if !rs.Matches("t.co") {
		t.Error("expected pattern after the invalid one to survive")
	}
}

func TestFileSource_EnvTokensOnly(t *testing.T) {
	src := NewFileSource("", []string{"tinyurl.com"}, []string{`^bit\.ly$`})

	rs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !rs.Matches("tinyurl.com") || !rs.Matches("bit.ly") {
		t.Fatal("expected env tokens to be loaded")
	}
}

func TestFileSource_MergesYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	doc := `
redirectors:
  domains: [is.gd, v.gd]
  patterns: ['^u\.to$']
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	src := NewFileSource(path, []string{"tinyurl.com"}, nil)

	rs, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	for _, d := range []string{"tinyurl.com", "is.gd", "v.gd", "u.to"} {
		if !rs.Matches(d) {
			t.Errorf("expected %s to match", d)
		}
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.yaml"), nil, nil)

	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for missing rules file")
	}
}

func TestFileSource_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte("redirectors: [unclosed"), 0o644); err != nil {
		t.Fatalf("write rules file: %v", err)
	}

	src := NewFileSource(path, nil, nil)

	if _, err := src.Load(context.Background()); err == nil {
		t.Fatal("expected error for malformed rules file")
	}
}
