// Package shell is the interactive tmc-host console.
//
// Commands run the same way from the ishell prompt and from Eval, which
// splits a single line with shell quoting rules.
package shell

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/abiosoft/ishell"
	"github.com/google/shlex"

	"tmc2209/host/monitor"
	"tmc2209/host/pins"
	"tmc2209/tmc"
	"tmc2209/units"
)

const shellKey = "$shell"

// Pins is the subset of GPIO control the console uses
type Pins interface {
	Enable(on bool) error
	Stalls() <-chan pins.Stall
}

// Shell binds console commands to one driver
type Shell struct {
	Driver *tmc.Driver
	Rsense float64

	// Optional collaborators, nil when not configured
	Pins    Pins
	Sniffer io.Reader
	Sink    monitor.Sink

	Topic    string
	Interval time.Duration
	Out      io.Writer

	ish *ishell.Shell
}

// New returns a shell writing to stdout
func New(d *tmc.Driver) *Shell {
	return &Shell{
		Driver:   d,
		Rsense:   units.DefaultRsense,
		Topic:    fmt.Sprintf("tmc2209/%d", d.Slave()),
		Interval: time.Second,
		Out:      os.Stdout,
	}
}

// Eval runs one command line
func (s *Shell) Eval(ctx context.Context, line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", line, err)
	}
	if len(args) == 0 {
		return nil
	}
	if args[0] == "help" {
		s.printHelp()
		return nil
	}
	cmd := find(args[0])
	if cmd == nil {
		return fmt.Errorf("unknown command %q (type 'help' for available commands)", args[0])
	}
	return s.exec(ctx, cmd, args[1:])
}

// Run starts the interactive prompt and blocks until the user exits
func (s *Shell) Run() {
	s.ish = ishell.New()
	s.ish.Set(shellKey, s)
	s.ish.SetPrompt(fmt.Sprintf("tmc[%d]> ", s.Driver.Slave()))
	for _, cmd := range commands {
		cmd := cmd
		s.ish.AddCmd(&ishell.Cmd{
			Name:    cmd.name,
			Aliases: cmd.aliases,
			Help:    cmd.summary(),
			Func: func(c *ishell.Context) {
				sh := c.Get(shellKey).(*Shell)
				if err := sh.exec(context.Background(), cmd, c.Args); err != nil {
					c.Err(err)
				}
			},
		})
	}
	s.ish.Run()
}

func (s *Shell) exec(ctx context.Context, cmd *command, args []string) error {
	if len(args) < cmd.minArgs || (cmd.maxArgs >= 0 && len(args) > cmd.maxArgs) {
		return fmt.Errorf("usage: %s", cmd.summary())
	}
	return cmd.run(ctx, s, args)
}

func (s *Shell) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.Out, format, args...)
}

func (s *Shell) printHelp() {
	names := make([]string, 0, len(commands))
	byName := make(map[string]*command, len(commands))
	for _, c := range commands {
		names = append(names, c.name)
		byName[c.name] = c
	}
	sort.Strings(names)

	s.printf("Available commands:\n")
	for _, n := range names {
		c := byName[n]
		s.printf("  %-32s %s\n", c.usage(), c.help)
	}
}

type command struct {
	name    string
	aliases []string
	args    string
	help    string
	minArgs int
	maxArgs int // -1 for unbounded
	run     func(ctx context.Context, s *Shell, args []string) error
}

func (c *command) usage() string {
	if c.args == "" {
		return c.name
	}
	return c.name + " " + c.args
}

func (c *command) summary() string {
	return c.usage() + " - " + c.help
}

func find(name string) *command {
	for _, c := range commands {
		if c.name == name {
			return c
		}
		for _, a := range c.aliases {
			if a == name {
				return c
			}
		}
	}
	return nil
}
