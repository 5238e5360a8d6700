// cmd/calc/main.go — interactive calculator on stdin/stdout.
//
// Each line is calculator input; bindings persist across lines. Commands:
//
//	:vars                       list bindings
//	:clear                      drop all bindings
//	:diff <var> <expr>          symbolic derivative
//	:solve <var> <guess> <expr> Newton–Raphson root, expr may be an equation
//	:quit                       exit
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/njchilds90/gocalc/internal/config"
)

func main() {
	v := viper.New()
	fs := pflag.NewFlagSet("calc", pflag.ExitOnError)
	if err := config.BindFlags(v, fs); err != nil {
		log.Fatal(err)
	}
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(v)
	if err != nil {
		log.Fatal(err)
	}
	logger := cfg.Log.NewLogger()

	r := newREPL(cfg.Engine.Calculator(logger), os.Stdout)
	if err := r.run(bufio.NewScanner(os.Stdin)); err != nil && err != io.EOF {
		logger.WithError(err).Error("Input failed")
		os.Exit(1)
	}
	fmt.Fprintln(os.Stdout)
}
