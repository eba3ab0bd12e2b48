package injector

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSS = "@layer base {\n  :root {\n    --background: 0 0% 100%;\n  }\n}\n"

func TestBuildBlock(t *testing.T) {
	block := BuildBlock(sampleCSS)

	if !strings.HasPrefix(block, MarkerStart+"\n") {
		t.Error("block should start with the start marker")
	}
	if !strings.HasSuffix(block, "\n"+MarkerEnd) {
		t.Error("block should end with the end marker")
	}
	if !strings.Contains(block, "--background: 0 0% 100%;") {
		t.Error("block should carry the css")
	}
}

func TestInjectNewFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app", "globals.css")

	if err := Inject(path, BuildBlock(sampleCSS)); err != nil {
		t.Fatalf("Inject() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	content := string(data)
	if !strings.Contains(content, MarkerStart) || !strings.Contains(content, MarkerEnd) {
		t.Error("file should contain both markers")
	}
}

func TestInjectAppendsAfterDirectives(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globals.css")

	existing := "@tailwind base;\n@tailwind components;\n\nbody { margin: 0; }\n"
	if err := os.WriteFile(path, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Inject(path, BuildBlock(sampleCSS)); err != nil {
		t.Fatalf("Inject() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	if strings.Index(content, "@tailwind base;") > strings.Index(content, MarkerStart) {
		t.Error("existing directives should stay above the managed block")
	}
	if !strings.Contains(content, "body { margin: 0; }") {
		t.Error("existing content should be preserved")
	}
}

func TestInjectUpdateBlock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globals.css")

	initial := "@tailwind base;\n\n" + MarkerStart + "\n--old: 1;\n" + MarkerEnd + "\n\n.custom { color: red; }\n"
	if err := os.WriteFile(path, []byte(initial), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Inject(path, BuildBlock(sampleCSS)); err != nil {
		t.Fatalf("Inject() error: %v", err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)

	if strings.Contains(content, "--old: 1;") {
		t.Error("old content between markers should be replaced")
	}
	if !strings.Contains(content, "--background") {
		t.Error("new content should be present")
	}
	if !strings.Contains(content, ".custom { color: red; }") {
		t.Error("content after markers should be preserved")
	}
}

func TestInjectIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globals.css")
	block := BuildBlock(sampleCSS)

	if err := Inject(path, block); err != nil {
		t.Fatal(err)
	}
	first, _ := os.ReadFile(path)
	if err := Inject(path, block); err != nil {
		t.Fatal(err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Error("second injection should not change the file")
	}
	if n := strings.Count(string(second), MarkerStart); n != 1 {
		t.Errorf("start marker count = %d, want 1", n)
	}
}

func TestInjectStrayMarker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globals.css")

	if err := os.WriteFile(path, []byte(MarkerStart+"\nbody {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Inject(path, BuildBlock(sampleCSS)); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	content := string(data)
	if strings.Count(content, MarkerStart) != 1 || strings.Count(content, MarkerEnd) != 1 {
		t.Errorf("stray marker should be replaced by one block:\n%s", content)
	}
	if !strings.Contains(content, "body {}") {
		t.Error("user css should survive")
	}
}

func TestWriteThemePrimary(t *testing.T) {
	dir := t.TempDir()

	rel, err := WriteTheme(dir, false, sampleCSS)
	if err != nil {
		t.Fatalf("WriteTheme() error: %v", err)
	}
	if rel != filepath.Join("app", "globals.css") {
		t.Errorf("path = %q, want app/globals.css", rel)
	}

	rel, err = WriteTheme(dir, true, sampleCSS)
	if err != nil {
		t.Fatal(err)
	}
	if rel != filepath.Join("src", "app", "globals.css") {
		t.Errorf("path = %q, want src/app/globals.css", rel)
	}
}

func TestWriteThemeFallback(t *testing.T) {
	dir := t.TempDir()
	// a file where the primary directory should be blocks the primary path
	if err := os.WriteFile(filepath.Join(dir, "app"), []byte("not a dir"), 0644); err != nil {
		t.Fatal(err)
	}

	rel, err := WriteTheme(dir, false, sampleCSS)
	if err != nil {
		t.Fatalf("WriteTheme() error: %v", err)
	}
	if rel != filepath.Join("styles", "globals.css") {
		t.Errorf("path = %q, want styles/globals.css", rel)
	}
	if r := Verify(filepath.Join(dir, rel)); !r.HasBlock {
		t.Error("fallback stylesheet should hold the block")
	}
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "globals.css")

	if r := Verify(path); r.Exists || r.HasBlock {
		t.Error("missing file should have Exists=false, HasBlock=false")
	}

	os.WriteFile(path, []byte("body {}\n"), 0644)
	if r := Verify(path); !r.Exists || r.HasBlock {
		t.Errorf("file without markers = %+v", r)
	}

	os.WriteFile(path, []byte(BuildBlock(sampleCSS)), 0644)
	if r := Verify(path); !r.HasBlock {
		t.Error("file with markers should have HasBlock=true")
	}
}

func TestFindTheme(t *testing.T) {
	dir := t.TempDir()
	if _, ok := FindTheme(dir, false); ok {
		t.Error("FindTheme should fail before any theme is written")
	}

	if _, err := WriteTheme(dir, false, sampleCSS); err != nil {
		t.Fatal(err)
	}
	r, ok := FindTheme(dir, false)
	if !ok {
		t.Fatal("FindTheme should locate the written theme")
	}
	if r.Path != filepath.Join("app", "globals.css") {
		t.Errorf("Path = %q", r.Path)
	}
}
