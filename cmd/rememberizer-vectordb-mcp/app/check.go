package app

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/radutopala/rememberizer-mcp/internal/config"
)

// newCheckCmd creates the check command
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the API key and print the bound vector store",
		Long: `Load the configuration, resolve the vector store bound to the API key and print
its details together with the tools that would be served. Exits non-zero if the
store cannot be resolved.`,
		Args: cobra.NoArgs,
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		printStatus(out, false, "Config", err.Error())
		return err
	}
	if cfg.File != "" {
		printStatus(out, true, "Config", cfg.File)
	} else {
		printStatus(out, true, "Config", "defaults and environment")
	}

	logger, closer, err := config.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := bootstrap(cmd.Context(), cfg, logger)
	if err != nil {
		printStatus(out, false, "API", err.Error())
		return err
	}
	printStatus(out, true, "API", cfg.BaseURL)
	printStatus(out, true, "Store", s.store.ID)

	gray := color.New(color.FgHiBlack)
	keys := make([]string, 0, len(s.store.Info))
	for key := range s.store.Info {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		gray.Fprintf(out, "      %-12s ", key)
		fmt.Fprintf(out, "%v\n", s.store.Info[key])
	}

	cyan := color.New(color.FgCyan)
	fmt.Fprintln(out)
	for _, tool := range s.registry.ListAll() {
		meta := tool.Metadata()
		cyan.Fprintf(out, "    %-6s ", meta.Method)
		fmt.Fprintf(out, "%s\n", meta.Name)
	}
	return nil
}

func printStatus(out io.Writer, ok bool, label, detail string) {
	if ok {
		color.New(color.FgGreen).Fprint(out, "    ✓ ")
	} else {
		color.New(color.FgRed, color.Bold).Fprint(out, "    ✗ ")
	}
	fmt.Fprintf(out, "%-8s %s\n", label+":", detail)
}
