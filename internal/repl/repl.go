// Package repl provides the interactive read-eval-print loop. Definitions
// and variables persist across lines inside a single Interpreter, so a
// function defined on one line is callable on the next.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"sauravcode/internal/evaluator"
	"sauravcode/internal/foreign"
	"sauravcode/internal/lexer"
	"sauravcode/internal/object"
	"sauravcode/internal/parser"
)

const (
	PROMPT       = ">> "
	CONTINUATION = ".. "
)

// blockKeywords open an indented block, which the lexer can only close once
// it has seen the full construct. Lines starting with one of these switch
// the loop into buffering mode until a blank line ends the block.
var blockKeywords = map[string]bool{
	"function": true,
	"if":       true,
	"while":    true,
	"for":      true,
	"try":      true,
}

func Start(in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	interp := evaluator.NewWithOptions(evaluator.Options{Out: out, In: in})
	interp.RegisterExtensions(foreign.Builtins())

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		src := line
		if opensBlock(line) {
			var block []string
			block = append(block, line)
			for {
				fmt.Fprint(out, CONTINUATION)
				if !scanner.Scan() {
					break
				}
				next := scanner.Text()
				if strings.TrimSpace(next) == "" {
					break
				}
				block = append(block, next)
			}
			src = strings.Join(block, "\n")
		}

		tokens, err := lexer.Tokenize(src)
		if err != nil {
			printError(out, err)
			continue
		}
		program, err := parser.Parse(tokens)
		if err != nil {
			printError(out, err)
			continue
		}

		result := interp.Run(program)
		switch r := result.(type) {
		case *object.Error:
			fmt.Fprintf(out, "Runtime error: %s\n", r.Message)
		case *object.ThrownError:
			fmt.Fprintf(out, "Uncaught error: %s\n", r.Value.Inspect())
		case *object.Nil:
		default:
			fmt.Fprintln(out, result.Inspect())
		}
	}
}

func opensBlock(line string) bool {
	fields := strings.Fields(line)
	return len(fields) > 0 && blockKeywords[fields[0]]
}

func printError(out io.Writer, err error) {
	fmt.Fprintf(out, "Syntax error: %v\n", err)
}
