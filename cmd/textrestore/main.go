// Command textrestore trains, runs and evaluates detokenization and
// recasing models.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/ieee0824/textrestore/internal/config"
	"github.com/pkg/errors"
)

// app carries the streams and shared flags of one CLI invocation.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// common holds the flags every subcommand accepts.
type common struct {
	configPath string
	verbose    bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configPath, "config", "", "YAML configuration file")
	fs.BoolVar(&c.verbose, "v", false, "verbose (debug) logging")
}

// setup loads the configuration and builds the logger. Flags given on the
// command line take precedence over the file.
func (a *app) setup(c *common) (*config.Config, *slog.Logger, error) {
	cfg := config.Default()
	if c.configPath != "" {
		var err error
		cfg, err = config.Load(c.configPath)
		if err != nil {
			return nil, nil, err
		}
	}
	if c.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, config.NewLogger(a.stderr, cfg.LogLevel), nil
}

// setFlags reports which flags were given explicitly.
func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func (a *app) root() *commander.Command {
	return &commander.Command{
		UsageLine: "textrestore <command> [options]",
		Short:     "restores detokenized and true-cased text",
		Subcommands: []*commander.Command{
			a.trainDetokCmd(),
			a.trainRecaseCmd(),
			a.lmBuildCmd(),
			a.detokCmd(),
			a.recaseCmd(),
			a.werCmd(),
			a.cleanCmd(),
			a.preprocCmd(),
			a.tuneCmd(),
		},
	}
}

// openInput opens path for reading; "" and "-" mean stdin.
func (a *app) openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(a.stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	return f, nil
}

// createOutput creates path for writing; "" and "-" mean stdout.
func (a *app) createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{a.stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func main() {
	a := &app{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := a.root().Dispatch(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "textrestore: %v\n", err)
		os.Exit(1)
	}
}
