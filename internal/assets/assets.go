// Package assets prepares a build's tests directory for NW.js.
//
// NW.js loads tests/index.html as the application's main page, so relative
// asset URLs must resolve against the build root rather than tests/, and
// tests/package.json must exist for NW.js to accept the directory as an app.
package assets

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	nwerrors "github.com/AndreyAkinshin/nwtest/internal/errors"
)

// BaseHref is the base URL the test page must use.
const BaseHref = "../"

// File names inside the tests directory.
const (
	IndexFile    = "index.html"
	ManifestFile = "package.json"
)

// ErrNoHead is returned when a page has no <head> to hold a <base> element.
var ErrNoHead = errors.New("no <head> element")

// Prepare rewrites testsDir/index.html to use BaseHref and makes sure
// testsDir/package.json exists, copying manifestSource when it does not.
func Prepare(testsDir, manifestSource string) error {
	if err := RewriteIndex(filepath.Join(testsDir, IndexFile)); err != nil {
		return err
	}
	if _, err := EnsureManifest(testsDir, manifestSource); err != nil {
		return err
	}
	return nil
}

// RewriteIndex sets the base href of the HTML page at path.
// The file is only written when its content changes.
func RewriteIndex(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return prepareError(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return prepareError(err)
	}

	rewritten, err := RewriteBaseHref(data)
	if err != nil {
		return prepareError(fmt.Errorf("%s: %w", path, err))
	}
	if bytes.Equal(rewritten, data) {
		return nil
	}
	if err := os.WriteFile(path, rewritten, info.Mode().Perm()); err != nil {
		return prepareError(err)
	}
	return nil
}

// RewriteBaseHref returns the document with every <base> element's href set
// to BaseHref. A document without <base> gets one right after its <head>
// start tag. Bytes outside the rewritten tags are preserved.
func RewriteBaseHref(data []byte) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(data) + len(`<base href="../">`))

	z := html.NewTokenizer(bytes.NewReader(data))
	headEnd := -1
	foundBase := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, err
			}
			break
		}

		raw := z.Raw()
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}

		// TagName lowercases the tokenizer buffer in place.
		raw = append([]byte(nil), raw...)
		name, hasAttr := z.TagName()
		switch atom.Lookup(name) {
		case atom.Head:
			out.Write(raw)
			if headEnd < 0 {
				headEnd = out.Len()
			}
		case atom.Base:
			tok := html.Token{Type: tt, DataAtom: atom.Base, Data: "base"}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				tok.Attr = append(tok.Attr, html.Attribute{Key: string(key), Val: string(val)})
			}
			setAttr(&tok, "href", BaseHref)
			out.WriteString(tok.String())
			foundBase = true
		default:
			out.Write(raw)
		}
	}

	if foundBase {
		return out.Bytes(), nil
	}
	if headEnd < 0 {
		return nil, ErrNoHead
	}

	result := make([]byte, 0, out.Len()+32)
	result = append(result, out.Bytes()[:headEnd]...)
	result = append(result, `<base href="`+BaseHref+`">`...)
	result = append(result, out.Bytes()[headEnd:]...)
	return result, nil
}

// setAttr sets key to val on tok, keeping the position of its first
// occurrence and dropping any duplicates.
func setAttr(tok *html.Token, key, val string) {
	attrs := tok.Attr[:0]
	found := false
	for _, a := range tok.Attr {
		if a.Key != key {
			attrs = append(attrs, a)
			continue
		}
		if !found {
			a.Val = val
			attrs = append(attrs, a)
			found = true
		}
	}
	if !found {
		attrs = append(attrs, html.Attribute{Key: key, Val: val})
	}
	tok.Attr = attrs
}

// EnsureManifest copies source to testsDir/package.json unless it already
// exists. It reports whether a copy was made.
func EnsureManifest(testsDir, source string) (bool, error) {
	dest := filepath.Join(testsDir, ManifestFile)
	if _, err := os.Stat(dest); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, prepareError(err)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return false, prepareError(err)
	}
	if err := os.WriteFile(dest, data, 0644); err != nil {
		return false, prepareError(err)
	}
	return true, nil
}

func prepareError(err error) error {
	return nwerrors.StepError("prepare", err.Error(), err)
}
