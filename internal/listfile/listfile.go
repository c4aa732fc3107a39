// Package listfile parses flat input lists: whitespace separated paths,
// optionally double-quoted, with # comments.
package listfile

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/spf13/afero"
)

// ListLexer defines the tokens of a list file.
var ListLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `#[^\n]*`},
	{Name: "String", Pattern: `"(?:\\.|[^"\\])*"`},
	{Name: "Path", Pattern: `[^\s"#]+`},
	{Name: "Newline", Pattern: `[\r\n]+`},
	{Name: "Whitespace", Pattern: `[ \t]+`},
})

// List is the parse tree of a list file.
type List struct {
	Pos     lexer.Position
	Entries []*Entry `parser:"@@*"`
}

// Entry is a single path in a list file.
type Entry struct {
	Pos  lexer.Position
	Path string `parser:"@(String | Path)"`
}

var parser = participle.MustBuild[List](
	participle.Lexer(ListLexer),
	participle.Elide("Whitespace", "Newline", "Comment"),
	participle.Unquote("String"),
)

// Parse reads the paths listed in r. name is used in error positions.
func Parse(name string, r io.Reader) ([]string, error) {
	list, err := parser.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse list: %w", err)
	}

	paths := make([]string, 0, len(list.Entries))
	for _, e := range list.Entries {
		if strings.TrimSpace(e.Path) == "" {
			return nil, fmt.Errorf("%s: empty path", e.Pos)
		}
		paths = append(paths, e.Path)
	}
	return paths, nil
}

// ParseFile reads a list file from fs.
func ParseFile(fs afero.Fs, path string) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open list file: %w", err)
	}
	defer f.Close()

	return Parse(path, f)
}
