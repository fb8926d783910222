// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ezrec/ansistream/logging"
	"github.com/ezrec/ansistream/starext"
	"github.com/ezrec/ansistream/stream"
)

var logger = logging.RootLogger.Sublogger("ansicat")

// Error prints an error message to standard error.
func Error(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// Fatal prints an error message to standard error and exits.
func Fatal(err error) {
	Error(err)
	os.Exit(1)
}

// Mainify wraps an entry point returning an error, so that deferred cleanup
// runs before the process exits.
func Mainify(entry func(*cobra.Command, []string) error) func(*cobra.Command, []string) {
	return func(command *cobra.Command, arguments []string) {
		if err := entry(command, arguments); err != nil {
			Fatal(err)
		}
	}
}

var rootCommand = &cobra.Command{
	Use:   "ansicat [flags] [file...]",
	Short: "Concatenate files through ANSI streams, transcoding on the way",
	Run:   Mainify(rootMain),
}

var rootConfiguration struct {
	from     string
	to       string
	eol      string
	tee      []string
	output   string
	binary   int
	signed   bool
	hooks    string
	stats    bool
	logLevel string
}

func init() {
	flags := rootCommand.Flags()
	flags.SortFlags = false

	flags.StringVar(&rootConfiguration.from, "from", "", "Input external format, as comma separated designators")
	flags.StringVar(&rootConfiguration.to, "to", "", "Output external format, as comma separated designators")
	flags.StringVar(&rootConfiguration.eol, "eol", "", "Output line ending (lf, cr or crlf)")
	flags.StringArrayVar(&rootConfiguration.tee, "tee", nil, "Also write to this file")
	flags.StringVarP(&rootConfiguration.output, "output", "o", "-", "Output file")
	flags.IntVar(&rootConfiguration.binary, "binary", 0, "Copy N-bit integers instead of characters")
	flags.BoolVar(&rootConfiguration.signed, "signed", false, "Binary integers are signed")
	flags.StringVar(&rootConfiguration.hooks, "hooks", "", "Starlark file defining on_decode_error and on_encode_error")
	flags.BoolVar(&rootConfiguration.stats, "stats", false, "Report the number of bytes written")
	flags.StringVar(&rootConfiguration.logLevel, "log-level", "", "Log level (disabled, error, warn, info, debug, trace)")
}

// designators splits a comma separated external format.
func designators(list ...string) (out []any) {
	for _, text := range list {
		for _, item := range strings.Split(text, ",") {
			item = strings.TrimSpace(item)
			if item != "" {
				out = append(out, item)
			}
		}
	}
	return
}

func elementType() stream.ElementType {
	switch {
	case rootConfiguration.binary == 0:
		return stream.CHARACTER
	case rootConfiguration.signed:
		return stream.SignedByte(rootConfiguration.binary)
	default:
		return stream.UnsignedByte(rootConfiguration.binary)
	}
}

func rootMain(command *cobra.Command, arguments []string) (err error) {
	if rootConfiguration.logLevel != "" {
		level, ok := logging.NameToLevel(rootConfiguration.logLevel)
		if !ok {
			return errors.Errorf("unknown log level %q", rootConfiguration.logLevel)
		}
		logging.RootLogger.SetLevel(level)
	}

	var hooks *starext.Module
	if rootConfiguration.hooks != "" {
		hooks, err = starext.Load(rootConfiguration.hooks, nil, nil)
		if err != nil {
			return
		}
	}

	to := rootConfiguration.to
	if to == "" {
		to = "default"
	}

	job := &Job{
		ElementType: elementType(),
		From:        designators(rootConfiguration.from),
		To:          designators(to, rootConfiguration.eol),
		Hooks:       hooks,
	}
	defer func() {
		cerr := job.Close(err != nil)
		if err == nil {
			err = cerr
		}
	}()

	if len(arguments) == 0 {
		arguments = []string{"-"}
	}
	for _, path := range arguments {
		err = job.AddInput(path)
		if err != nil {
			return
		}
	}

	err = job.AddOutput(rootConfiguration.output)
	if err != nil {
		return
	}
	for _, path := range rootConfiguration.tee {
		err = job.AddOutput(path)
		if err != nil {
			return
		}
	}

	stats, err := job.Run()
	if err != nil {
		return
	}

	if rootConfiguration.stats {
		fmt.Fprintf(os.Stderr, "%d elements, %s\n", stats.Elements, humanize.Bytes(uint64(stats.Octets)))
	}
	return
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
