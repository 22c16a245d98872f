package resolver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileReaderReadsAnAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("contents"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r := &FileReader{}
	body, err := r.Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(body) != "contents" {
		t.Fatalf("got %q, want %q", body, "contents")
	}
}

func TestFileReaderFallsBackToBaseDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "inc.txt"), []byte("included"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	r := &FileReader{BaseDir: dir}
	body, err := r.Read("inc.txt")
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if string(body) != "included" {
		t.Fatalf("got %q, want %q", body, "included")
	}
}

func TestFileReaderMissingFileReturnsReadError(t *testing.T) {
	r := &FileReader{}
	_, err := r.Read(filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Fatalf("expected an error for a missing file")
	}
	if _, ok := err.(*ReadError); !ok {
		t.Fatalf("expected *ReadError, got %T", err)
	}
}

func TestGithubRawURLDefaultsRefToHEAD(t *testing.T) {
	url, err := githubRawURL("github:octocat/hello/path/to/file.txt")
	if err != nil {
		t.Fatalf("githubRawURL failed: %v", err)
	}
	want := "https://raw.githubusercontent.com/octocat/hello/HEAD/path/to/file.txt"
	if url != want {
		t.Fatalf("got %q, want %q", url, want)
	}
}

func TestGithubRawURLHonorsExplicitRef(t *testing.T) {
	url, err := githubRawURL("github:octocat/hello/path/to/file.txt@v1.2.3")
	if err != nil {
		t.Fatalf("githubRawURL failed: %v", err)
	}
	want := "https://raw.githubusercontent.com/octocat/hello/v1.2.3/path/to/file.txt"
	if url != want {
		t.Fatalf("got %q, want %q", url, want)
	}
}

func TestGithubRawURLRejectsMalformedReference(t *testing.T) {
	if _, err := githubRawURL("github:onlyowner"); err == nil {
		t.Fatalf("expected an error for a malformed github reference")
	}
}
