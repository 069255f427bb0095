package shell

import (
	"strings"

	"github.com/chzyer/readline"
)

// commands completed after "/"
var commands = []string{"profile", "mode", "classify", "help", "quit"}

// modes completed after "/mode "
var modes = []string{"multiset", "distinct"}

// Completer completes commands and /mode arguments
type Completer struct{}

var _ readline.AutoCompleter = Completer{}

// NewCompleter returns the shell completer
func NewCompleter() Completer { return Completer{} }

// Do implements readline.AutoCompleter. Candidates are suffixes of the word
// under the cursor; length is that word's length
func (Completer) Do(line []rune, pos int) ([][]rune, int) {
	if len(line) == 0 || pos <= 0 {
		return nil, 0
	}
	if pos > len(line) {
		pos = len(line)
	}
	head := string(line[:pos])
	start := strings.LastIndexAny(head, " \t") + 1
	word := head[start:]

	switch {
	case start == 0 && strings.HasPrefix(word, "/"):
		return complete(commands, strings.TrimPrefix(word, "/"), len([]rune(word)))
	case strings.HasPrefix(head, "/mode ") && strings.TrimSpace(head[:start]) == "/mode":
		return complete(modes, word, len([]rune(word)))
	}
	return nil, 0
}

func complete(options []string, prefix string, length int) ([][]rune, int) {
	var out [][]rune
	for _, o := range options {
		if strings.HasPrefix(o, prefix) {
			out = append(out, []rune(o[len(prefix):]+" "))
		}
	}
	return out, length
}
