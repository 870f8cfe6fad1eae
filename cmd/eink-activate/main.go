package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/term"

	"github.com/openeink/eink-activate/internal/config"
	"github.com/openeink/eink-activate/internal/log"
	"github.com/openeink/eink-activate/pkg/activation"
	"github.com/openeink/eink-activate/pkg/connector/ble"
)

var version = "undefined"

func writeErr(format string, a ...interface{}) {
	fmt.Fprintf(os.Stderr, format, a...)
	fmt.Fprintf(os.Stderr, "\n")
}

const usage = `
 * Enter the last 6 hex digits of the MAC address shown on the badge screen.
 * Codes from the 'ternary' algorithm are typed with the three badge buttons.
 * Only the two verified examples are known to be correct; other codes are guesses.`

func Usage() {
	fmt.Printf("%s - version %s\n\n", os.Args[0], version)
	fmt.Printf("Usage: %s [OPTION...] [COMMAND [ARG...] | MAC]\n", os.Args[0])
	fmt.Printf("\nWithout a COMMAND, %s reads MAC suffixes and commands from stdin.", os.Args[0])
	fmt.Printf("\nRun %s help COMMAND for more information. Valid COMMANDs are listed below.", os.Args[0])
	fmt.Println("")
	fmt.Println(usage)
	fmt.Println("")

	fmt.Printf("Available OPTIONs:\n")
	flag.PrintDefaults()
	fmt.Println("")
	fmt.Printf("Available COMMANDs:\n")
	printCommands(os.Stdout)
}

// registerFlags binds command line flags to cfg. Values already loaded from the environment
// become the flag defaults, so flags given on the command line take precedence.
func registerFlags(fs *flag.FlagSet, cfg *config.Config) {
	fs.BoolVar(&cfg.Verbose, "debug", cfg.Verbose, "Enable verbose debugging messages")
	fs.StringVar(&cfg.Algorithm, "algorithm", cfg.Algorithm, "Derivation algorithm: "+activation.AlgorithmNames())
	fs.StringVar(&cfg.KnownFile, "known", cfg.KnownFile, "YAML `file` with additional verified examples")
	fs.DurationVar(&cfg.ScanTimeout, "scan-timeout", cfg.ScanTimeout, "How long the scan command listens for badges")
	fs.StringVar(&cfg.NamePrefix, "prefix", cfg.NamePrefix, "Default device name prefix for the scan command")
}

func printBanner(s *session) {
	w := s.out
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "HM213 e-ink badge activation code generator")
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintln(w, "Supported models: HM213_A25H01, HM213_A25L01, HM213_B25H01, HM213_B25L01")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Verified examples:")
	for _, suffix := range s.deriver.KnownExamples() {
		code, _ := s.deriver.Lookup(suffix)
		fmt.Fprintf(w, "  %s -> %s (verified)\n", suffix, code)
	}
	fmt.Fprintln(w, "Buttons:")
	for _, b := range activation.Buttons {
		fmt.Fprintf(w, "  %s -> digit %c\n", b.Name, b.Digit)
	}
	fmt.Fprintln(w, "Other suffixes use a guessed mapping; run 'status' for details.")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Algorithm: %s. Type 'help' for commands, 'quit' to leave.\n", s.algorithm)
	fmt.Fprintln(w, "")
}

func runCommand(s *session, args []string) int {
	if err := dispatch(context.Background(), s, args); err != nil {
		s.writeErr("Error: %s", err)
		return 1
	}
	return 0
}

func isExit(word string) bool {
	switch strings.ToLower(word) {
	case "quit", "exit", "q":
		return true
	}
	return false
}

// runInteractiveShell reads one line per iteration until an exit keyword or end of input. Failed
// lines are reported and the loop carries on.
func runInteractiveShell(s *session, in io.Reader, interactive bool) int {
	prompt := func() {
		if interactive {
			fmt.Fprintf(s.out, "> ")
		}
	}
	scanner := bufio.NewScanner(in)
	for prompt(); scanner.Scan(); prompt() {
		args, err := shlex.Split(scanner.Text())
		if err != nil {
			s.writeErr("Invalid input: %s", err)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if len(args) == 1 && isExit(args[0]) {
			fmt.Fprintln(s.out, "Goodbye!")
			return 0
		}
		runCommand(s, args)
	}
	if err := scanner.Err(); err != nil {
		s.writeErr("Error reading input: %s", err)
		return 1
	}
	return 0
}

func main() {
	status := 1
	defer func() {
		os.Exit(status)
	}()

	cfg, err := config.Load()
	if err != nil {
		writeErr("Failed to load configuration: %s", err)
		return
	}
	flag.Usage = Usage
	registerFlags(flag.CommandLine, cfg)
	flag.Parse()

	log.SetLevel(log.LevelWarning)
	if cfg.Verbose {
		log.SetLevel(log.LevelDebug)
		log.Debug("%s - version %s", os.Args[0], version)
	}

	algorithm, err := cfg.ParsedAlgorithm()
	if err != nil {
		writeErr("Invalid algorithm: %s", err)
		return
	}
	deriver, err := cfg.NewDeriver()
	if err != nil {
		writeErr("Error loading known examples: %s", err)
		return
	}
	log.Debug("Known examples: %s", strings.Join(deriver.KnownExamples(), ", "))

	s := &session{
		deriver:     deriver,
		algorithm:   algorithm,
		scanTimeout: cfg.ScanTimeout,
		namePrefix:  cfg.NamePrefix,
		scan:        ble.Scan,
		out:         os.Stdout,
		errOut:      os.Stderr,
	}

	if args := flag.Args(); len(args) > 0 {
		if isHelp(args[0]) && len(args) == 1 {
			Usage()
			status = 0
			return
		}
		status = runCommand(s, args)
		return
	}

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		printBanner(s)
	}
	status = runInteractiveShell(s, os.Stdin, interactive)
}
