package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"xplm-bindgen/internal/config"
	"xplm-bindgen/internal/gen"
	"xplm-bindgen/internal/logutil"
	"xplm-bindgen/internal/pipeline"
	"xplm-bindgen/internal/plan"
)

// NewCLI builds the command tree. Environment values are read through
// getenv once per command.
func NewCLI(getenv func(string) string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "xplm-bindgen",
		Short: "Generate the X-Plane SDK binding",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Disable usage printing on errors
			cmd.SilenceUsage = true
		},
	}

	cobra.EnableCommandSorting = false

	flags := rootCmd.PersistentFlags()
	flags.String("sdk", "", "X-Plane SDK root ("+config.EnvSDK+")")
	flags.String("versions", "", "API epochs separated by ';' ("+config.EnvVersions+")")
	flags.String("out", "", "Output directory of the consuming package ("+config.EnvOutDir+")")
	flags.String("target", "", "Target GOOS (default: host)")
	flags.String("parser", "", "Parser command line, e.g. \"zig cc\" ("+config.EnvParser+")")
	flags.String("config", "", "YAML configuration file ("+config.EnvConfig+")")
	flags.Bool("generate", false, "Run the parser instead of using the pre-built artifact ("+config.EnvGenerate+")")
	flags.Bool("debug", false, "Show debug logs ("+config.EnvDebug+")")
	flags.Bool("trace", false, "Show parser command lines and every discovered header")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate the binding artifact and link directives",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return genHandler(cmd, getenv)
		},
	}

	planCmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved flags, headers and linkage without generating",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return planHandler(cmd, getenv)
		},
	}
	planCmd.Flags().Bool("yaml", false, "Print the resolution as YAML")
	planCmd.Flags().Bool("dump", false, "Dump the full report")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Fail if the generated artifact is stale",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkHandler(cmd, getenv)
		},
	}

	envCmd := &cobra.Command{
		Use:   "env",
		Short: "List the environment variables and their values",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return envHandler(cmd, getenv)
		},
	}

	rootCmd.AddCommand(genCmd, planCmd, checkCmd, envCmd)

	return rootCmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if err := cobra.NoArgs(cmd, args); err != nil {
		return usageError{err}
	}

	return nil
}

// rawConfig layers the command line over the environment.
func rawConfig(cmd *cobra.Command, getenv func(string) string) config.Raw {
	str := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	boolean := func(name string) string {
		if !cmd.Flags().Changed(name) {
			return ""
		}

		v, _ := cmd.Flags().GetBool(name)

		return strconv.FormatBool(v)
	}

	return config.FromEnv(getenv).Merge(config.Raw{
		SDK:        str("sdk"),
		Versions:   str("versions"),
		OutDir:     str("out"),
		Target:     str("target"),
		Parser:     str("parser"),
		ConfigFile: str("config"),
		Generate:   boolean("generate"),
		Debug:      boolean("debug"),
	})
}

// loadConfig resolves the run configuration and installs the logger.
func loadConfig(cmd *cobra.Command, getenv func(string) string) (*config.Config, error) {
	cfg, err := config.Resolve(rawConfig(cmd, getenv))
	if err != nil {
		return nil, err
	}

	trace, _ := cmd.Flags().GetBool("trace")
	slog.SetDefault(logutil.NewLogger(cmd.ErrOrStderr(), logutil.Level(cfg.Debug, trace)))

	return cfg, nil
}

func genHandler(cmd *cobra.Command, getenv func(string) string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}

	_, err = pipeline.New(pipeline.NewParser(cfg)).Run(cmd.Context(), cfg)

	return err
}

func planHandler(cmd *cobra.Command, getenv func(string) string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}

	r, err := pipeline.New(pipeline.NewParser(cfg)).Preview(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if dump, _ := cmd.Flags().GetBool("dump"); dump {
		spew.Fdump(out, r)
		return nil
	}

	if asYAML, _ := cmd.Flags().GetBool("yaml"); asYAML {
		data, err := plan.ExportYAML(r.Definitions, r.Manifest)
		if err != nil {
			return err
		}

		_, err = out.Write(data)

		return err
	}

	writePlan(out, cfg, r)

	return nil
}

func writePlan(out io.Writer, cfg *config.Config, r *pipeline.Report) {
	fmt.Fprintf(out, "mode:     %s\n", r.Mode)
	fmt.Fprintf(out, "platform: %s (%s)\n", r.Platform, cfg.GOOS)
	fmt.Fprintf(out, "artifact: %s\n", r.ArtifactPath)
	fmt.Fprintf(out, "flags:    %s\n", r.Definitions)

	if r.Plan.Empty() {
		fmt.Fprintln(out, "ldflags:  (none, resolved by the host)")
	} else {
		fmt.Fprintf(out, "ldflags:  %s\n", strings.Join(r.Plan.LDFlags(), " "))
	}

	fmt.Fprintln(out)

	var data [][]string
	for _, g := range r.Manifest.Groups {
		data = append(data, []string{g.Subsystem.Name, strconv.Itoa(len(g.Headers)), g.Subsystem.Dir})
	}

	table := newTable(out, []string{"SUBSYSTEM", "HEADERS", "DIR"})
	table.AppendBulk(data)
	table.Render()
}

func checkHandler(cmd *cobra.Command, getenv func(string) string) error {
	cfg, err := loadConfig(cmd, getenv)
	if err != nil {
		return err
	}

	err = pipeline.New(pipeline.NewParser(cfg)).Check(cfg)
	if errors.Is(err, gen.ErrStale) {
		return fmt.Errorf("%w; run with %s=1 to regenerate", err, config.EnvGenerate)
	}

	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date\n", cfg.ArtifactPath())

	return nil
}

func envHandler(cmd *cobra.Command, getenv func(string) string) error {
	var data [][]string
	for _, v := range config.Describe(rawConfig(cmd, getenv)) {
		data = append(data, []string{v.Name, v.Value, v.Description})
	}

	table := newTable(cmd.OutOrStdout(), []string{"NAME", "VALUE", "DESCRIPTION"})
	table.SetAutoWrapText(false)
	table.AppendBulk(data)
	table.Render()

	return nil
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")

	return table
}
