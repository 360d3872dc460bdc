package shell

import "strings"

// analyze classifies the words following a program name into a subcommand
// path, a flag set and positional arguments, using the static program table.
//
// The scan is a single left-to-right pass. Subcommand scanning runs while the
// words are members of the program's known token set and the program's
// maximum depth has not been reached; the first flag or unrecognized word
// ends it permanently. Programs absent from the table have depth zero, so
// every non-flag word is a positional argument.
func analyze(program string, words []string) ([]string, map[string]struct{}, []string) {
	var subcommands []string
	flags := make(map[string]struct{})
	var args []string

	info, known := programTable[program]
	maxDepth := 0
	if known {
		maxDepth = info.maxDepth
	}

	scanning := true
	depth := 0
	for _, word := range words {
		switch {
		case len(word) > 0 && word[0] == '-':
			scanning = false
			addFlags(word, flags)
		case scanning && depth < maxDepth:
			if _, ok := info.tokens[word]; ok {
				subcommands = append(subcommands, word)
				depth++
			} else {
				scanning = false
				args = append(args, word)
			}
		default:
			args = append(args, word)
		}
	}
	return subcommands, flags, args
}

// addFlags decomposes a flag word. A --long flag contributes the text before
// any "="; a short flag cluster contributes one flag per alphabetic character.
func addFlags(word string, flags map[string]struct{}) {
	if len(word) >= 2 && word[0] == '-' && word[1] == '-' {
		if i := strings.IndexByte(word, '='); i >= 0 {
			word = word[:i]
		}
		flags[word] = struct{}{}
		return
	}
	if len(word) > 1 {
		for _, r := range word[1:] {
			if isAlpha(r) {
				flags["-"+string(r)] = struct{}{}
			}
		}
	}
}

func isAlpha(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
