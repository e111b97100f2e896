package fakegl

import (
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

const (
	TOKEN_IDENT = iota
	TOKEN_NUMBER
	TOKEN_PUNCT
)

var lexer *lexmachine.Lexer

func init() {
	lexer = lexmachine.NewLexer()
	lexer.Add([]byte(`#[^\n]*`), skip)
	lexer.Add([]byte(`//[^\n]*`), skip)
	lexer.Add([]byte(`/\*([^*]|\r|\n|(\*+([^*/]|\r|\n)))*\*+/`), skip)
	lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), getToken(TOKEN_IDENT))
	lexer.Add([]byte(`[0-9]+(\.[0-9]*)?([eE][\+\-]?[0-9]+)?[fFuU]?`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`\.[0-9]+([eE][\+\-]?[0-9]+)?[fF]?`), getToken(TOKEN_NUMBER))
	lexer.Add([]byte(`\s+`), skip)
	lexer.Add([]byte(`.`), getToken(TOKEN_PUNCT))

	if err := lexer.Compile(); err != nil {
		panic(err)
	}
}

func getToken(tokenType int) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(tokenType, string(m.Bytes), m), nil
	}
}

func skip(scan *lexmachine.Scanner, match *machines.Match) (interface{}, error) {
	return nil, nil
}

// Declaration is a global in/out/uniform variable of a shader stage.
type Declaration struct {
	Storage string
	Type    string
	Name    string
}

type glslUnit struct {
	decls []Declaration
}

func (u *glslUnit) filter(storage ...string) []Declaration {
	result := make([]Declaration, 0, len(u.decls))
	for _, d := range u.decls {
		for _, s := range storage {
			if d.Storage == s {
				result = append(result, d)
				break
			}
		}
	}
	return result
}

var qualifiers = map[string]bool{
	"lowp": true, "mediump": true, "highp": true,
	"flat": true, "smooth": true, "noperspective": true, "centroid": true,
	"invariant": true,
}

var storages = map[string]bool{
	"attribute": true, "varying": true, "in": true, "out": true, "uniform": true,
}

// parseGLSL checks the overall shape of a shader (balanced brackets and a
// main entry point) and collects its global declarations. It is not a GLSL
// compiler; the body of functions is never inspected.
func parseGLSL(source string) (*glslUnit, error) {
	scanner, err := lexer.Scanner([]byte(source))
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to create lexer scanner")
	}

	unit := &glslUnit{}
	var stmt []*lexmachine.Token
	var prev *lexmachine.Token
	braces, parens, brackets := 0, 0, 0
	hasMain := false

	for Itok, err, eos := scanner.Next(); !eos; Itok, err, eos = scanner.Next() {
		if err != nil {
			return nil, errors.Wrapf(err, "Failed to parse token")
		}
		tok := Itok.(*lexmachine.Token)

		if tok.Type == TOKEN_PUNCT {
			switch tok.Value.(string) {
			case "{":
				braces++
				stmt = stmt[:0]
				prev = tok
				continue
			case "}":
				braces--
				if braces < 0 {
					return nil, errors.Errorf("%d:%d: unexpected '}'", tok.StartLine, tok.StartColumn)
				}
				stmt = stmt[:0]
				prev = tok
				continue
			case "(":
				parens++
				if braces == 0 && prev != nil && prev.Type == TOKEN_IDENT && prev.Value.(string) == "main" {
					hasMain = true
				}
			case ")":
				parens--
				if parens < 0 {
					return nil, errors.Errorf("%d:%d: unexpected ')'", tok.StartLine, tok.StartColumn)
				}
			case "[":
				brackets++
			case "]":
				brackets--
				if brackets < 0 {
					return nil, errors.Errorf("%d:%d: unexpected ']'", tok.StartLine, tok.StartColumn)
				}
			case ";":
				if parens != 0 {
					return nil, errors.Errorf("%d:%d: unexpected ';' inside parentheses", tok.StartLine, tok.StartColumn)
				}
				if braces == 0 {
					if d, ok := declaration(stmt); ok {
						unit.decls = append(unit.decls, d)
					}
				}
				stmt = stmt[:0]
				prev = tok
				continue
			}
		}
		if braces == 0 {
			stmt = append(stmt, tok)
		}
		prev = tok
	}

	switch {
	case braces != 0:
		return nil, errors.Errorf("unbalanced braces (%d not closed)", braces)
	case parens != 0:
		return nil, errors.Errorf("unbalanced parentheses (%d not closed)", parens)
	case brackets != 0:
		return nil, errors.Errorf("unbalanced brackets (%d not closed)", brackets)
	case !hasMain:
		return nil, errors.New("missing main entry point")
	}
	return unit, nil
}

func declaration(stmt []*lexmachine.Token) (Declaration, bool) {
	var words []string
	for i := 0; i < len(stmt); i++ {
		tok := stmt[i]
		if tok.Type != TOKEN_IDENT {
			if len(words) >= 3 {
				// array size or initializer after the name
				break
			}
			return Declaration{}, false
		}
		word := tok.Value.(string)
		if word == "layout" {
			i = skipParens(stmt, i+1)
			continue
		}
		if qualifiers[word] {
			continue
		}
		words = append(words, word)
	}
	if len(words) != 3 || !storages[words[0]] {
		return Declaration{}, false
	}
	return Declaration{Storage: words[0], Type: words[1], Name: words[2]}, true
}

// skipParens returns the index of the ')' closing the group opened at start.
func skipParens(stmt []*lexmachine.Token, start int) int {
	depth := 0
	for i := start; i < len(stmt); i++ {
		switch stmt[i].Value.(string) {
		case "(":
			depth++
		case ")":
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return len(stmt)
}
