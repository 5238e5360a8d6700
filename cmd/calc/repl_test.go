package main

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gocalc"
)

// ============================================================
// REPL tests
// ============================================================

func session(t *testing.T, input string) string {
	t.Helper()
	var out bytes.Buffer
	r := newREPL(gocalc.NewCalculator(), &out)
	require.NoError(t, r.run(bufio.NewScanner(strings.NewReader(input))))
	return strings.ReplaceAll(out.String(), prompt, "")
}

func TestREPL_KeepsScope(t *testing.T) {
	out := session(t, "a = 2\nb = a * 3\na + b\n:vars\n")
	assert.Equal(t, "2\n6\n8\na = 2\nb = 6\n", out)
}

func TestREPL_Clear(t *testing.T) {
	out := session(t, "a = 2\n:clear\na\n")
	assert.Equal(t, "2\nError: undefined variable: a\n", out)
}

func TestREPL_Diff(t *testing.T) {
	out := session(t, ":diff x x^2\n:diff x abs(x)\n:diff x\n")
	assert.Equal(t, "2 * x\nError: abs is not differentiable\nError: usage :diff <var> <expr>\n", out)
}

func TestREPL_Solve(t *testing.T) {
	out := session(t, ":solve x -1 x^2 = 4\nx\n:solve x 0 x^2 - 4\n:solve x 1 sqrt(x) + 1\n")
	assert.Equal(t, "x = -2\n-2\n"+
		"Error: derivative vanishes at x = 0, try another initial guess\n"+
		"Error: no solution found, try another initial guess\n", out)
}

func TestREPL_Quit(t *testing.T) {
	out := session(t, "1\n:quit\n2\n")
	assert.Equal(t, "1\n", out)
}

func TestREPL_UnknownCommand(t *testing.T) {
	out := session(t, ":nope\n\n")
	assert.Equal(t, "Error: unknown command :nope\n", out)
}
