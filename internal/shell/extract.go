package shell

import (
	"errors"
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// ErrNoCommands is returned when syntactically valid input contains no
// extractable program invocation (for example, variable assignments only).
// Callers must treat it as a failure, not as an implicit allow.
var ErrNoCommands = errors.New("no commands found in input")

// ParseError wraps a shell syntax error. Evaluation of the input is aborted;
// no partial command list is produced.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse shell input: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Extract parses input as bash and returns every simple command reachable by
// executing it, in source order. All compound structure is flattened: subshell
// and brace-group bodies, loop bodies, every conditional branch and every case
// branch are treated as unconditional continuations of their parent sequence.
// Which branch actually runs is not statically decidable, so the extractor
// over-approximates; a listed command that never runs is harmless, a missed
// one is a bypass.
//
// Whitespace-only input yields an empty list. Input that parses but contains
// no program invocation returns ErrNoCommands.
func Extract(input string) ([]ParsedCommand, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}

	parser := syntax.NewParser(syntax.Variant(syntax.LangBash))
	file, err := parser.Parse(strings.NewReader(input), "")
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	x := &extractor{input: input}
	x.walkStmts(file.Stmts, false)

	if len(x.out) == 0 {
		return nil, ErrNoCommands
	}
	return x.out, nil
}

type extractor struct {
	input string
	out   []ParsedCommand
}

func (x *extractor) walkStmts(stmts []*syntax.Stmt, piped bool) {
	for _, st := range stmts {
		x.walkStmt(st, piped)
	}
}

// walkStmt dispatches on the command variant. Compound bodies are walked with
// piped reset to false: a pipeline stage that is itself a subshell marks the
// subshell's stage, not the commands inside it.
func (x *extractor) walkStmt(st *syntax.Stmt, piped bool) {
	if st == nil || st.Cmd == nil {
		return
	}
	hasRedirect := len(st.Redirs) > 0

	switch cmd := st.Cmd.(type) {
	case *syntax.CallExpr:
		x.emitCall(cmd, piped, hasRedirect)
	case *syntax.BinaryCmd:
		if cmd.Op == syntax.Pipe || cmd.Op == syntax.PipeAll {
			x.walkStmt(cmd.X, true)
			x.walkStmt(cmd.Y, true)
		} else {
			x.walkStmt(cmd.X, piped)
			x.walkStmt(cmd.Y, piped)
		}
	case *syntax.Subshell:
		x.walkStmts(cmd.Stmts, false)
	case *syntax.Block:
		x.walkStmts(cmd.Stmts, false)
	case *syntax.IfClause:
		for clause := cmd; clause != nil; clause = clause.Else {
			x.walkStmts(clause.Cond, false)
			x.walkStmts(clause.Then, false)
		}
	case *syntax.WhileClause:
		x.walkStmts(cmd.Cond, false)
		x.walkStmts(cmd.Do, false)
	case *syntax.ForClause:
		// Covers both word iteration and C-style arithmetic loops; the
		// loop header spawns no subprocess, only the body does.
		x.walkStmts(cmd.Do, false)
	case *syntax.CaseClause:
		for _, item := range cmd.Items {
			x.walkStmts(item.Stmts, false)
		}
	case *syntax.DeclClause:
		x.emitDecl(cmd, piped, hasRedirect)
	case *syntax.TimeClause:
		x.walkStmt(cmd.Stmt, piped)
	case *syntax.CoprocClause:
		x.walkStmt(cmd.Stmt, false)
	case *syntax.FuncDecl:
		// Definitions execute nothing at definition time. The body is
		// checked again if the input ever invokes the function by name.
	case *syntax.TestClause:
		// [[ ... ]] is a pure predicate, no subprocess semantics.
	case *syntax.ArithmCmd, *syntax.LetClause:
		// Arithmetic evaluation spawns no subprocess.
	}
}

// emitCall converts a simple command into a ParsedCommand. Assignments before
// the program word become environment variables; with no program word at all
// the fragment is dropped.
func (x *extractor) emitCall(call *syntax.CallExpr, piped, hasRedirect bool) {
	env := make(map[string]string)
	for _, as := range call.Assigns {
		if as.Name == nil {
			continue
		}
		env[as.Name.Value] = x.assignValue(as)
	}

	var words []string
	for _, w := range call.Args {
		text, procSubst := x.resolveWord(w)
		if procSubst {
			hasRedirect = true
			if wordIsProcSubst(w) {
				continue
			}
		}
		words = append(words, text)
	}
	if len(words) == 0 {
		return
	}
	x.emit(words, env, piped, hasRedirect)
}

// emitDecl handles declaration builtins (export, declare, local, readonly,
// typeset). mvdan parses them as a distinct node; for rule matching they are
// commands whose NAME=VALUE operands are literal arguments.
func (x *extractor) emitDecl(decl *syntax.DeclClause, piped, hasRedirect bool) {
	if decl.Variant == nil {
		return
	}
	words := []string{decl.Variant.Value}
	for _, as := range decl.Args {
		switch {
		case as.Name != nil && (as.Value != nil || !as.Naked):
			words = append(words, as.Name.Value+"="+x.assignValue(as))
		case as.Name != nil:
			words = append(words, as.Name.Value)
		case as.Value != nil:
			text, procSubst := x.resolveWord(as.Value)
			if procSubst {
				hasRedirect = true
			}
			words = append(words, text)
		}
	}
	x.emit(words, nil, piped, hasRedirect)
}

func (x *extractor) emit(words []string, env map[string]string, piped, hasRedirect bool) {
	hasExpansion := false
	hasSubstitution := false
	for _, w := range words {
		if containsExpansion(w) {
			hasExpansion = true
		}
		if containsSubstitution(w) {
			hasSubstitution = true
		}
	}

	subcommands, flags, args := analyze(words[0], words[1:])
	if env == nil {
		env = make(map[string]string)
	}
	x.out = append(x.out, ParsedCommand{
		Raw:             x.input,
		Program:         words[0],
		Subcommands:     subcommands,
		Args:            args,
		Flags:           flags,
		IsPiped:         piped,
		HasRedirect:     hasRedirect,
		EnvVars:         env,
		HasExpansion:    hasExpansion,
		HasSubstitution: hasSubstitution,
	})
}

func (x *extractor) assignValue(as *syntax.Assign) string {
	switch {
	case as.Value != nil:
		text, _ := x.resolveWord(as.Value)
		return text
	case as.Array != nil:
		return x.raw(as.Array)
	default:
		return ""
	}
}

func wordIsProcSubst(w *syntax.Word) bool {
	if len(w.Parts) != 1 {
		return false
	}
	_, ok := w.Parts[0].(*syntax.ProcSubst)
	return ok
}

// raw returns the original source text of a node.
func (x *extractor) raw(n syntax.Node) string {
	start := int(n.Pos().Offset())
	end := int(n.End().Offset())
	if start < 0 || end > len(x.input) || start > end {
		return ""
	}
	return x.input[start:end]
}

// containsExpansion reports parameter expansion: a $ followed by anything
// except ( or `, which begin command substitution instead.
func containsExpansion(s string) bool {
	runes := []rune(s)
	for i, r := range runes {
		if r != '$' || i+1 >= len(runes) {
			continue
		}
		if next := runes[i+1]; next != '(' && next != '`' {
			return true
		}
	}
	return false
}

// containsSubstitution reports command substitution: $( or a backtick.
func containsSubstitution(s string) bool {
	return strings.Contains(s, "$(") || strings.ContainsRune(s, '`')
}
