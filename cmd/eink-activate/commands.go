package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/openeink/eink-activate/internal/log"
	"github.com/openeink/eink-activate/pkg/activation"
	"github.com/openeink/eink-activate/pkg/connector/ble"
)

var (
	ErrCommandLineArgs = errors.New("invalid command line arguments")
	ErrUnknownCommand  = errors.New("unrecognized command")
)

// demoSuffixes are shown by the examples command next to the verified examples.
var demoSuffixes = []string{"123456", "ABCDEF", "A1B2C3"}

type Argument struct {
	name string
	help string
}

type Handler func(ctx context.Context, s *session, args map[string]string) error

type Command struct {
	help     string
	args     []Argument
	optional []Argument
	handler  Handler
}

// session holds everything a command needs. Commands write results to out and problems to
// errOut.
type session struct {
	deriver     *activation.Deriver
	algorithm   activation.Algorithm
	scanTimeout time.Duration
	namePrefix  string
	scan        func(ctx context.Context, prefix string) ([]ble.Entry, error)

	out    io.Writer
	errOut io.Writer
}

func (s *session) writeErr(format string, a ...interface{}) {
	fmt.Fprintf(s.errOut, format, a...)
	fmt.Fprintf(s.errOut, "\n")
}

func isHelp(name string) bool {
	return name == "help" || name == "h"
}

// dispatch runs args as a command. Input that does not start with a command name is taken to be
// a MAC suffix and derived with the session's algorithm.
func dispatch(ctx context.Context, s *session, args []string) error {
	if len(args) == 0 {
		return errors.New("missing COMMAND")
	}
	if _, ok := commands[args[0]]; !ok && !isHelp(args[0]) {
		args = []string{"derive", strings.Join(args, " ")}
	}
	return execute(ctx, s, args)
}

func execute(ctx context.Context, s *session, args []string) error {
	var err error

	if len(args) == 0 {
		return errors.New("missing COMMAND")
	}
	if isHelp(args[0]) {
		return s.help(args[1:])
	}
	info, ok := commands[args[0]]
	if !ok {
		return ErrUnknownCommand
	}

	if len(args)-1 < len(info.args) || len(args)-1 > len(info.args)+len(info.optional) {
		s.writeErr("Invalid number of arguments: %d (%d required, %d optional).", len(args)-1, len(info.args), len(info.optional))
		err = ErrCommandLineArgs
	} else {
		keywords := make(map[string]string)
		for i, argInfo := range info.args {
			keywords[argInfo.name] = args[i+1]
		}
		index := len(info.args) + 1
		for _, argInfo := range info.optional {
			if index >= len(args) {
				break
			}
			keywords[argInfo.name] = args[index]
			index++
		}
		err = info.handler(ctx, s, keywords)
	}

	// Print command-specific help
	if errors.Is(err, ErrCommandLineArgs) {
		info.Usage(s.out, args[0])
	}
	return err
}

func (s *session) help(args []string) error {
	if len(args) == 0 {
		printCommands(s.out)
		return nil
	}
	info, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}
	info.Usage(s.out, args[0])
	return nil
}

func printCommands(w io.Writer) {
	maxLength := 0
	var labels []string
	for command := range commands {
		labels = append(labels, command)
		if len(command) > maxLength {
			maxLength = len(command)
		}
	}
	sort.Strings(labels)
	for _, command := range labels {
		info := commands[command]
		fmt.Fprintf(w, "  %s%s %s\n", command, strings.Repeat(" ", maxLength-len(command)), info.help)
	}
}

func (c *Command) Usage(w io.Writer, name string) {
	fmt.Fprintf(w, "Usage: %s", name)
	maxLength := 0
	for _, arg := range c.args {
		fmt.Fprintf(w, " %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Fprintf(w, " [")
	}
	for _, arg := range c.optional {
		fmt.Fprintf(w, " %s", arg.name)
		if len(arg.name) > maxLength {
			maxLength = len(arg.name)
		}
	}
	if len(c.optional) > 0 {
		fmt.Fprintf(w, " ]")
	}
	fmt.Fprintf(w, "\n%s\n", c.help)
	maxLength++
	for _, arg := range c.args {
		fmt.Fprintf(w, "    %s:%s%s\n", arg.name, strings.Repeat(" ", maxLength-len(arg.name)), arg.help)
	}
	for _, arg := range c.optional {
		fmt.Fprintf(w, "    %s:%s%s\n", arg.name, strings.Repeat(" ", maxLength-len(arg.name)), arg.help)
	}
}

// algorithmArg returns the ALGORITHM argument, falling back to the session default.
func algorithmArg(s *session, args map[string]string) (activation.Algorithm, error) {
	name, ok := args["ALGORITHM"]
	if !ok {
		return s.algorithm, nil
	}
	return activation.ParseAlgorithm(name)
}

var (
	macArgument       = Argument{name: "MAC", help: "last 6 hex digits of the badge MAC address, e.g. 68:2B:FE"}
	algorithmArgument = Argument{name: "ALGORITHM", help: activation.AlgorithmNames() + ", defaults to the -algorithm option"}
)

var commands = map[string]*Command{
	"derive": &Command{
		help:     "Print the activation code for a MAC suffix",
		args:     []Argument{macArgument},
		optional: []Argument{algorithmArgument},
		handler: func(ctx context.Context, s *session, args map[string]string) error {
			algorithm, err := algorithmArg(s, args)
			if err != nil {
				return err
			}
			code, err := s.deriver.Derive(args["MAC"], algorithm)
			if err != nil {
				log.Debug("Rejected input %q: %s", args["MAC"], err)
				return err
			}
			log.Debug("Derived %s from %s with %s (known: %t)", code.Digits, code.Suffix, code.Algorithm, code.Known)
			fmt.Fprintf(s.out, "%s -> %s (%s)\n", code.Suffix, code.Digits, code.Algorithm)
			return nil
		},
	},
	"analyze": &Command{
		help:     "Print the activation code with its confidence and the buttons to press",
		args:     []Argument{macArgument},
		optional: []Argument{algorithmArgument},
		handler: func(ctx context.Context, s *session, args map[string]string) error {
			algorithm, err := algorithmArg(s, args)
			if err != nil {
				return err
			}
			analysis, err := s.deriver.Analyze(args["MAC"], algorithm)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "MAC suffix:      %s\n", analysis.Code.Suffix)
			fmt.Fprintf(s.out, "Activation code: %s\n", analysis.Code.Digits)
			fmt.Fprintf(s.out, "Confidence:      %s\n", analysis.Confidence)
			fmt.Fprintf(s.out, "Method:          %s\n", analysis.Method)
			for _, detail := range analysis.Details {
				fmt.Fprintf(s.out, "    - %s\n", detail)
			}
			if algorithm != activation.AlgorithmTernary {
				return nil
			}
			keys, err := activation.Keys(analysis.Code.Digits)
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Input sequence:\n")
			for i, key := range keys {
				fmt.Fprintf(s.out, "  %d: %c -> %s\n", i+1, key.Digit, key)
			}
			return nil
		},
	},
	"keys": &Command{
		help: "Show which badge button enters which digit",
		handler: func(ctx context.Context, s *session, args map[string]string) error {
			for _, b := range activation.Buttons {
				fmt.Fprintf(s.out, "  %s -> digit %c (BLE code 0x%04X)\n", b.Name, b.Digit, b.Code)
			}
			return nil
		},
	},
	"status": &Command{
		help: "Show what is known about the activation algorithm",
		handler: func(ctx context.Context, s *session, args map[string]string) error {
			for _, f := range activation.Status() {
				mark := "x"
				if !f.Confirmed {
					mark = "?"
				}
				fmt.Fprintf(s.out, "  [%s] %s\n", mark, f.Description)
			}
			return nil
		},
	},
	"examples": &Command{
		help: "Derive codes for the verified examples and a few sample suffixes",
		handler: func(ctx context.Context, s *session, args map[string]string) error {
			fmt.Fprintf(s.out, "%-8s %-9s %-9s\n", "SUFFIX", "MODULO", "TERNARY")
			suffixes := append(s.deriver.KnownExamples(), demoSuffixes...)
			for _, suffix := range suffixes {
				fmt.Fprintf(s.out, "%-8s %-9s %-9s", suffix,
					s.deriver.Generate(suffix, activation.AlgorithmModulo),
					s.deriver.Generate(suffix, activation.AlgorithmTernary))
				if _, ok := s.deriver.Lookup(suffix); ok {
					fmt.Fprintf(s.out, " verified")
				}
				fmt.Fprintf(s.out, "\n")
			}
			return nil
		},
	},
	"scan": &Command{
		help:     "Listen for nearby badges over BLE and derive their codes",
		optional: []Argument{Argument{name: "PREFIX", help: "only list devices whose name starts with PREFIX"}},
		handler: func(ctx context.Context, s *session, args map[string]string) error {
			prefix := s.namePrefix
			if p, ok := args["PREFIX"]; ok {
				prefix = p
			}
			ctx, cancel := context.WithTimeout(ctx, s.scanTimeout)
			defer cancel()

			log.Info("Scanning for %s", s.scanTimeout)
			entries, err := s.scan(ctx, prefix)
			if err != nil {
				// Error isn't wrapped so we have to check for a substring explicitly.
				if strings.Contains(err.Error(), "operation not permitted") {
					// The underlying BLE package calls HCIDEVDOWN on the BLE device before scanning.
					s.writeErr("\nTry again after granting this application CAP_NET_ADMIN:\n\n\tsudo setcap 'cap_net_admin=eip' \"$(which eink-activate)\"\n")
				}
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintf(s.out, "No devices found.\n")
				return nil
			}
			for _, entry := range entries {
				code := "address hidden"
				if entry.Suffix != "" {
					code = s.deriver.Generate(entry.Suffix, s.algorithm)
				}
				fmt.Fprintf(s.out, "%-20s %-17s %4d  %s\n", entry.LocalName, entry.Address, entry.RSSI, code)
			}
			return nil
		},
	},
}
