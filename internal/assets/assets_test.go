package assets

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
)

const emberIndex = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8">
    <title>MyApp Tests</title>
    <base href="/" />
    <link rel="stylesheet" href="assets/vendor.css">
    <link rel="stylesheet" href="assets/test-support.css">
  </head>
  <body>
    <div id="qunit"></div>
    <script src="assets/vendor.js"></script>
    <script>if (1 < 2) { document.write("<base href='x'>"); }</script>
  </body>
</html>
`

func TestRewriteBaseHref(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "replaces existing href",
			input: `<html><head><base href="/"></head><body></body></html>`,
			want:  `<html><head><base href="../"></head><body></body></html>`,
		},
		{
			name:  "self-closing base",
			input: `<html><head><base href="/my-app/" /></head></html>`,
			want:  `<html><head><base href="../"/></head></html>`,
		},
		{
			name:  "adds href to base without one",
			input: `<html><head><base target="_self"></head></html>`,
			want:  `<html><head><base target="_self" href="../"></head></html>`,
		},
		{
			name:  "drops duplicate href",
			input: `<html><head><base href="/" target="_self" HREF="/x/"></head></html>`,
			want:  `<html><head><base href="../" target="_self"></head></html>`,
		},
		{
			name:  "inserts base after head",
			input: "<!DOCTYPE html>\n<html>\n<head lang=\"en\">\n<title>t</title>\n</head>\n</html>\n",
			want:  "<!DOCTYPE html>\n<html>\n<head lang=\"en\"><base href=\"../\">\n<title>t</title>\n</head>\n</html>\n",
		},
		{
			name:  "uppercase tags",
			input: `<HTML><HEAD><BASE HREF="/"></HEAD></HTML>`,
			want:  `<HTML><HEAD><base href="../"></HEAD></HTML>`,
		},
		{
			name:  "base in comment is not an element",
			input: `<head><!-- <base href="/"> --></head>`,
			want:  `<head><base href="../"><!-- <base href="/"> --></head>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := RewriteBaseHref([]byte(tt.input))
			if err != nil {
				t.Fatalf("RewriteBaseHref() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, string(got)); diff != "" {
				t.Errorf("RewriteBaseHref() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRewriteBaseHref_PreservesDocument(t *testing.T) {
	t.Parallel()
	got, err := RewriteBaseHref([]byte(emberIndex))
	if err != nil {
		t.Fatalf("RewriteBaseHref() error = %v", err)
	}

	want := strings.Replace(emberIndex, `<base href="/" />`, `<base href="../"/>`, 1)
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("document changed outside <base> (-want +got):\n%s", diff)
	}
}

func TestRewriteBaseHref_Idempotent(t *testing.T) {
	t.Parallel()
	inputs := []string{
		emberIndex,
		"<html><head><title>t</title></head></html>",
	}

	for _, input := range inputs {
		once, err := RewriteBaseHref([]byte(input))
		if err != nil {
			t.Fatalf("first RewriteBaseHref() error = %v", err)
		}
		twice, err := RewriteBaseHref(once)
		if err != nil {
			t.Fatalf("second RewriteBaseHref() error = %v", err)
		}
		if diff := cmp.Diff(string(once), string(twice)); diff != "" {
			t.Errorf("second rewrite changed the document (-first +second):\n%s", diff)
		}
		if n := strings.Count(string(twice), `base href="../"`); n != 1 {
			t.Errorf("base href appears %d times, want 1", n)
		}
	}
}

func TestRewriteBaseHref_NoHead(t *testing.T) {
	t.Parallel()
	_, err := RewriteBaseHref([]byte("<p>fragment</p>"))
	if !errors.Is(err, ErrNoHead) {
		t.Errorf("RewriteBaseHref() error = %v, want ErrNoHead", err)
	}
}

func newBuildOutput(t *testing.T, index string) (testsDir, manifest string) {
	t.Helper()
	root := t.TempDir()
	manifest = filepath.Join(root, "package.json")
	if err := os.WriteFile(manifest, []byte(`{"name": "my-app", "main": "tests/index.html"}`), 0644); err != nil {
		t.Fatal(err)
	}
	testsDir = filepath.Join(root, "tmp", "nw-test", "tests")
	if err := os.MkdirAll(testsDir, 0755); err != nil {
		t.Fatal(err)
	}
	if index != "" {
		if err := os.WriteFile(filepath.Join(testsDir, IndexFile), []byte(index), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return testsDir, manifest
}

func TestPrepare(t *testing.T) {
	t.Parallel()
	testsDir, manifest := newBuildOutput(t, emberIndex)

	if err := Prepare(testsDir, manifest); err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	index, err := os.ReadFile(filepath.Join(testsDir, IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(index), `base href="../"`) {
		t.Errorf("index.html = %q, want base href", index)
	}

	copied, err := os.ReadFile(filepath.Join(testsDir, ManifestFile))
	if err != nil {
		t.Fatalf("package.json not copied: %v", err)
	}
	source, _ := os.ReadFile(manifest)
	if string(copied) != string(source) {
		t.Errorf("package.json = %q, want copy of %q", copied, source)
	}

	// A second run leaves everything as it is.
	if err := Prepare(testsDir, manifest); err != nil {
		t.Fatalf("second Prepare() error = %v", err)
	}
	again, _ := os.ReadFile(filepath.Join(testsDir, IndexFile))
	if string(again) != string(index) {
		t.Error("second Prepare() changed index.html")
	}
}

func TestEnsureManifest_KeepsExisting(t *testing.T) {
	t.Parallel()
	testsDir, manifest := newBuildOutput(t, emberIndex)
	existing := `{"name": "built", "main": "index.html"}`
	if err := os.WriteFile(filepath.Join(testsDir, ManifestFile), []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	copied, err := EnsureManifest(testsDir, manifest)
	if err != nil {
		t.Fatalf("EnsureManifest() error = %v", err)
	}
	if copied {
		t.Error("EnsureManifest() copied over an existing manifest")
	}
	got, _ := os.ReadFile(filepath.Join(testsDir, ManifestFile))
	if string(got) != existing {
		t.Errorf("package.json = %q, want %q", got, existing)
	}
}

func TestPrepare_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing index", func(t *testing.T) {
		t.Parallel()
		testsDir, manifest := newBuildOutput(t, "")
		err := Prepare(testsDir, manifest)
		assertPrepareError(t, err)
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})

	t.Run("missing tests directory", func(t *testing.T) {
		t.Parallel()
		err := Prepare(filepath.Join(t.TempDir(), "tests"), "package.json")
		assertPrepareError(t, err)
	})

	t.Run("missing source manifest", func(t *testing.T) {
		t.Parallel()
		testsDir, _ := newBuildOutput(t, emberIndex)
		err := Prepare(testsDir, filepath.Join(t.TempDir(), "package.json"))
		assertPrepareError(t, err)
		if _, statErr := os.Stat(filepath.Join(testsDir, ManifestFile)); statErr == nil {
			t.Error("package.json created despite missing source")
		}
	})

	t.Run("page without head", func(t *testing.T) {
		t.Parallel()
		testsDir, manifest := newBuildOutput(t, "<p>no head</p>")
		err := Prepare(testsDir, manifest)
		assertPrepareError(t, err)
		if !errors.Is(err, ErrNoHead) {
			t.Errorf("error = %v, want ErrNoHead", err)
		}
	})
}

func assertPrepareError(t *testing.T, err error) {
	t.Helper()
	var nerr *nwerrors.NWTestError
	if !errors.As(err, &nerr) {
		t.Fatalf("error = %v, want *NWTestError", err)
	}
	if nerr.Step != "prepare" {
		t.Errorf("Step = %q, want prepare", nerr.Step)
	}
}
