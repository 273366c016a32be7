package bundler

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ksyq12/spabuild/internal/errors"
)

const fallbackIndex = `<!doctype html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1.0" />
    <title>Admin</title>
  </head>
  <body>
    <div id="root"></div>
  </body>
</html>
`

// writeIndex renders the project's index.html into the output directory,
// pointing it at the hashed bundle.
func (b *Bundler) writeIndex(res *Result) (OutputFile, error) {
	src := b.cfg.IndexHTMLPath()
	data, err := os.ReadFile(src)
	if os.IsNotExist(err) {
		b.log.Warn("%s not found, generating a minimal index.html", b.cfg.Build.IndexHTML)
		data = []byte(fallbackIndex)
	} else if err != nil {
		return OutputFile{}, errors.WrapSubject(errors.ErrCodeNotFound, b.cfg.Build.IndexHTML, err)
	}

	entryRel, _ := filepath.Rel(b.cfg.Root, b.cfg.EntryPath())
	css := make([]string, len(res.CSS))
	for i, c := range res.CSS {
		css[i] = "/" + c
	}

	rendered, err := rewriteIndex(data, filepath.ToSlash(entryRel), "/"+res.Entry, css)
	if err != nil {
		return OutputFile{}, errors.WrapSubject(errors.ErrCodeBundle, b.cfg.Build.IndexHTML, err)
	}
	if err := writeFile(filepath.Join(res.OutDir, "index.html"), rendered); err != nil {
		return OutputFile{}, err
	}
	return OutputFile{Path: "index.html", Size: int64(len(rendered))}, nil
}

// rewriteIndex points the module script that loads entry at bundle and
// links each stylesheet in <head>. When no script references the entry, a
// module script is appended to <body>.
func rewriteIndex(src []byte, entry, bundle string, stylesheets []string) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	var head, body *html.Node
	linked := make(map[string]bool)
	rewritten := false

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Head:
				head = n
			case atom.Body:
				body = n
			case atom.Script:
				if s, ok := attr(n, "src"); ok && sameModule(s, entry) {
					setAttr(n, "src", bundle)
					setAttr(n, "type", "module")
					rewritten = true
				}
			case atom.Link:
				if href, ok := attr(n, "href"); ok {
					linked[href] = true
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if head != nil {
		for _, href := range stylesheets {
			if linked[href] {
				continue
			}
			head.AppendChild(element(atom.Link, []html.Attribute{
				{Key: "rel", Val: "stylesheet"},
				{Key: "href", Val: href},
			}))
		}
	}
	if !rewritten {
		parent := body
		if parent == nil {
			parent = head
		}
		if parent != nil {
			parent.AppendChild(element(atom.Script, []html.Attribute{
				{Key: "type", Val: "module"},
				{Key: "src", Val: bundle},
			}))
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// sameModule reports whether a script src refers to the entry module.
func sameModule(src, entry string) bool {
	if strings.Contains(src, "://") || strings.HasPrefix(src, "//") {
		return false
	}
	return strings.TrimPrefix(path.Clean("/"+src), "/") == strings.TrimPrefix(path.Clean("/"+entry), "/")
}

func element(a atom.Atom, attrs []html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
