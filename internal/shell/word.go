package shell

import (
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// resolveWord flattens a word into its unquoted text. Quote delimiters are
// removed; expansion and substitution constructs keep their raw source text so
// that the command-level detection scan still sees them. The second return is
// true when the word contains a process substitution.
func (x *extractor) resolveWord(w *syntax.Word) (string, bool) {
	var b strings.Builder
	procSubst := false
	for _, part := range w.Parts {
		switch p := part.(type) {
		case *syntax.Lit:
			b.WriteString(unescapeBare(p.Value))
		case *syntax.SglQuoted:
			b.WriteString(p.Value)
		case *syntax.DblQuoted:
			for _, inner := range p.Parts {
				switch ip := inner.(type) {
				case *syntax.Lit:
					b.WriteString(unescapeDouble(ip.Value))
				case *syntax.ProcSubst:
					procSubst = true
				default:
					b.WriteString(x.raw(inner))
				}
			}
		case *syntax.ProcSubst:
			procSubst = true
		default:
			// ParamExp, CmdSubst, ArithmExp, ExtGlob: keep the raw text.
			b.WriteString(x.raw(part))
		}
	}
	return b.String(), procSubst
}

// unescapeBare resolves backslash escapes outside quotes: a backslash makes
// the next character literal, and a backslash-newline pair (line
// continuation) disappears entirely.
func unescapeBare(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		if s[i] != '\n' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// unescapeDouble resolves the escape set honored inside double quotes:
// \" \\ \$ \` plus \n and \t. Every other backslash sequence passes through
// unchanged.
func unescapeDouble(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		switch s[i+1] {
		case '"', '\\', '$', '`':
			b.WriteByte(s[i+1])
			i++
		case 'n':
			b.WriteByte('\n')
			i++
		case 't':
			b.WriteByte('\t')
			i++
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
