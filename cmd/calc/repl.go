package main

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/njchilds90/gocalc"
)

const prompt = "> "

type repl struct {
	calc  *gocalc.Calculator
	scope gocalc.Scope
	out   io.Writer
}

func newREPL(calc *gocalc.Calculator, out io.Writer) *repl {
	return &repl{calc: calc, scope: gocalc.NewScope(), out: out}
}

// run reads lines until :quit or end of input.
func (r *repl) run(in *bufio.Scanner) error {
	for {
		fmt.Fprint(r.out, prompt)
		if !in.Scan() {
			return in.Err()
		}
		if !r.line(in.Text()) {
			return nil
		}
	}
}

// line handles one input line and reports whether to keep reading.
func (r *repl) line(text string) bool {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return true
	case !strings.HasPrefix(text, ":"):
		var res gocalc.Result
		res, r.scope = r.calc.Calculate(text, r.scope)
		fmt.Fprintln(r.out, r.calc.Format(res))
		return true
	}

	cmd, args := text, ""
	if i := strings.IndexByte(text, ' '); i > 0 {
		cmd, args = text[:i], strings.TrimSpace(text[i+1:])
	}
	switch cmd {
	case ":quit", ":q":
		return false
	case ":vars":
		r.vars()
	case ":clear":
		r.scope = gocalc.NewScope()
	case ":diff":
		r.diff(args)
	case ":solve":
		r.solve(args)
	default:
		fmt.Fprintf(r.out, "Error: unknown command %s\n", cmd)
	}
	return true
}

func (r *repl) vars() {
	names := make([]string, 0, len(r.scope))
	for name := range r.scope {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(r.out, "%s = %s\n", name, r.calc.Format(r.scope[name]))
	}
}

func (r *repl) diff(args string) {
	fields := strings.SplitN(args, " ", 2)
	if len(fields) != 2 {
		fmt.Fprintln(r.out, "Error: usage :diff <var> <expr>")
		return
	}
	n, err := gocalc.Parse(fields[1])
	if err != nil {
		fmt.Fprintln(r.out, "Error:", err)
		return
	}
	d, err := gocalc.Differentiate(n, fields[0])
	if err != nil {
		fmt.Fprintln(r.out, "Error:", err)
		return
	}
	fmt.Fprintln(r.out, d)
}

func (r *repl) solve(args string) {
	fields := strings.SplitN(args, " ", 3)
	if len(fields) != 3 {
		fmt.Fprintln(r.out, "Error: usage :solve <var> <guess> <expr>")
		return
	}
	guess, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		fmt.Fprintln(r.out, "Error: guess must be a number")
		return
	}
	n, err := gocalc.ParseEquation(fields[2])
	if err != nil {
		fmt.Fprintln(r.out, "Error:", err)
		return
	}
	out := r.calc.Solver.SolveIn(n, fields[0], guess, r.scope)
	switch out.Status {
	case gocalc.Converged:
		r.scope.SetNumber(fields[0], out.Value)
		fmt.Fprintf(r.out, "%s = %s\n", fields[0], r.calc.Formatter.Number(out.Value))
	case gocalc.NotConverged:
		fmt.Fprintln(r.out, "Error: no solution found, try another initial guess")
	default:
		fmt.Fprintln(r.out, "Error:", out.Err.Msg)
	}
}
