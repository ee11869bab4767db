package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cellpy/internal/prms"
)

// PrmsOptions holds flags shared by the prms subcommands.
type PrmsOptions struct {
	*RootOptions
	File        string
	SearchOrder []string

	// SearchPaths overrides the search location directories (for testing).
	SearchPaths map[string]string
}

// ParametersOutput is the JSON form of a resolved parameter set.
type ParametersOutput struct {
	Source     string            `json:"source"`
	Parameters map[string]string `json:"parameters"`
}

// CheckOutput is the JSON form of a health check.
type CheckOutput struct {
	Locations  []prms.SearchLocation `json:"locations"`
	Parameters ParametersOutput      `json:"parameters"`
	Problems   []prms.Problem        `json:"problems"`
	OK         bool                  `json:"ok"`
}

// NewPrmsCommand creates the prms command group.
func NewPrmsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrmsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prms",
		Short: "Inspect and create cellpy parameter files",
		Long: `Resolve, check and create _cellpy_prms*.ini parameter files.

Parameter files are searched in curdir (working directory), filedir
(directory of the cellpy executable) and userdir (home directory).
Later locations win. A file named _cellpy_prms_default.ini is only used
when no other parameter file is found. CELLPY_* environment variables
override file values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.File, "file", "", "read this parameter file instead of searching")
	cmd.PersistentFlags().StringSliceVar(&opts.SearchOrder, "search-order", prms.DefaultSearchOrder,
		"search locations in ascending priority (curdir,filedir,userdir)")

	cmd.AddCommand(newPrmsShowCommand(opts))
	cmd.AddCommand(newPrmsCheckCommand(opts))
	cmd.AddCommand(newPrmsInitCommand(opts))

	return cmd
}

func newPrmsShowCommand(opts *PrmsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the resolved parameters",
		Example: `  cellpy prms show
  cellpy prms show --file ./_cellpy_prms_lab.ini --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, opts.RootOptions)
			ps, err := opts.resolve(formatter)
			if err != nil {
				return err
			}
			if formatter.JSON() {
				return formatter.Success(parametersOutput(ps))
			}
			return formatter.Success(strings.TrimSuffix(ps.String(), "\n"))
		},
	}
}

func newPrmsCheckCommand(opts *PrmsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that configured directories and databases exist",
		Long: `Resolve the parameters and verify that every configured directory
exists and that the cell database files can be found and opened.
Exits with status 1 when problems are found.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrmsCheck(opts, cmd)
		},
	}
}

func runPrmsCheck(opts *PrmsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(cmd, opts.RootOptions)
	ps, err := opts.resolve(formatter)
	if err != nil {
		return err
	}
	report := prms.Check(ps)
	locations := opts.resolver().Locations()

	if formatter.JSON() {
		out := CheckOutput{
			Locations:  locations,
			Parameters: parametersOutput(ps),
			Problems:   report.Problems,
			OK:         report.OK(),
		}
		if out.Problems == nil {
			out.Problems = []prms.Problem{}
		}
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		formatter.Textf("Search path:")
		for _, loc := range locations {
			formatter.Textf("  %-8s %s (exists: %t)", loc.Name, loc.Dir, loc.Exists)
		}
		formatter.Textf("")
		formatter.Textf("%s", strings.TrimSuffix(ps.String(), "\n"))
		formatter.Textf("")
		for _, p := range report.Problems {
			formatter.Textf("%s", p)
		}
		if report.OK() {
			formatter.Textf("All ok")
		}
	}

	if !report.OK() {
		// Problems are already listed in the output.
		return &ExitError{
			Code:     ExitFailure,
			Message:  fmt.Sprintf("%s: %d problem(s) found", ErrCodeCheckFailed, len(report.Problems)),
			Reported: true,
		}
	}
	return nil
}

func newPrmsInitCommand(opts *PrmsOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a parameter file with the resolved values",
		Long: `Write the resolved parameters (defaults, discovered file and
environment) to a new INI parameter file. An existing file is kept
unless --force is given.`,
		Example:       `  cellpy prms init ~/_cellpy_prms_lab.ini`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(cmd, opts.RootOptions)
			ps, err := opts.resolve(formatter)
			if err != nil {
				return err
			}
			if err := prms.Write(args[0], ps, force); err != nil {
				return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, "failed to write parameter file", err, nil)
			}
			if formatter.JSON() {
				return formatter.Success(map[string]string{"written": args[0]})
			}
			formatter.Textf("✓ wrote %s", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func (o *PrmsOptions) resolver() *prms.Resolver {
	r := prms.NewResolver(o.SearchOrder)
	if o.SearchPaths != nil {
		r.SearchPaths = o.SearchPaths
	}
	r.Logger = o.logger()
	return r
}

func (o *PrmsOptions) resolve(formatter *OutputFormatter) (prms.ParameterSet, error) {
	ps, err := o.resolver().Resolve(o.File)
	if err == nil {
		return ps, nil
	}

	code := ErrCodeGeneric
	switch {
	case errors.Is(err, prms.ErrConfigNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, prms.ErrConfigInvalid):
		code = ErrCodeConfigInvalid
	case errors.Is(err, prms.ErrUnknownSearchLocation):
		code = ErrCodeInvalidInput
	}
	return ps, formatter.Fail(ExitCommandError, code, "failed to resolve parameters", err, nil)
}

func parametersOutput(ps prms.ParameterSet) ParametersOutput {
	out := ParametersOutput{Source: ps.Source, Parameters: map[string]string{}}
	for _, kv := range ps.Values() {
		out.Parameters[kv[0]] = kv[1]
	}
	return out
}
