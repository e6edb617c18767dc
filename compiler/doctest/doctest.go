// Package doctest extracts compiler test cases from markdown files,
// so the documented example programs stay executable.
//
// A case is a heading of the form `Test: <name>` followed by a
// fenced `wheel` block with the source and either a fenced `ir`
// block with the expected canonical IR text or a fenced `error`
// block with a fragment of the expected diagnostic.
package doctest

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"tlog.app/go/errors"
)

type (
	Case struct {
		Name  string
		Input string
		IR    string
		Error string
	}
)

func ExtractCases(source []byte) (cases []Case, err error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var cur *Case

	flush := func() error {
		if cur == nil {
			return nil
		}

		if cur.Input == "" {
			return errors.New("test %v: no wheel block", cur.Name)
		}
		if cur.IR == "" && cur.Error == "" {
			return errors.New("test %v: no ir or error block", cur.Name)
		}

		cases = append(cases, *cur)
		cur = nil

		return nil
	}

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading:
			title := nodeText(n, source)
			if !strings.HasPrefix(title, "Test: ") {
				return ast.WalkContinue, nil
			}

			if err := flush(); err != nil {
				return ast.WalkStop, err
			}

			cur = &Case{Name: strings.TrimPrefix(title, "Test: ")}
		case *ast.FencedCodeBlock:
			if cur == nil {
				return ast.WalkContinue, nil
			}

			lang := string(n.Language(source))
			content := fenceText(n, source)

			switch lang {
			case "wheel":
				if cur.Input != "" {
					return ast.WalkStop, errors.New("test %v: multiple wheel blocks", cur.Name)
				}

				cur.Input = content
			case "ir":
				cur.IR = content
			case "error":
				cur.Error = strings.TrimRight(content, "\n")
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walk markdown")
	}

	err = flush()
	if err != nil {
		return nil, err
	}

	return cases, nil
}

func nodeText(n ast.Node, source []byte) string {
	var b bytes.Buffer

	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			if t, ok := n.(*ast.Text); ok {
				b.Write(t.Segment.Value(source))
			}
		}

		return ast.WalkContinue, nil
	})

	return b.String()
}

func fenceText(n *ast.FencedCodeBlock, source []byte) string {
	var b bytes.Buffer

	for i := 0; i < n.Lines().Len(); i++ {
		line := n.Lines().At(i)
		b.Write(line.Value(source))
	}

	return b.String()
}
