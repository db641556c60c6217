package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"jimpact/internal/index"
	"jimpact/internal/javaparse"
	"jimpact/internal/tracer"
)

var traceDepth int

var traceCmd = &cobra.Command{
	Use:   "trace <class> <method>",
	Short: "Trace a changed method upward to reachable endpoints",
	Long: `Trace the caller graph upward from a changed (class, method) pair to
every externally reachable HTTP endpoint inside the primary root.

The class may be a simple name or fully qualified. Known interface aliases
of the class are traced as well.

Examples:
  jimpact trace UserService getUserById
  jimpact trace com.svc.UserServiceImpl getUserById --depth=4`,
	Args: cobra.ExactArgs(2),
	RunE: runTrace,
}

func init() {
	traceCmd.Flags().IntVar(&traceDepth, "depth", tracer.DefaultMaxDepth, "Maximum caller hops per branch")
	rootCmd.AddCommand(traceCmd)
}

func runTrace(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	class, method := args[0], args[1]

	arena := javaparse.NewArena(cfg.Analysis.ParseCacheSize)
	ix := index.Build(rootFlag, arena, cfg.Analysis.ExcludeDirs, logger)
	tr := tracer.New(rootFlag, ix, arena, cfg.Analysis.ExcludeDirs, traceDepth, logger)

	affected := tr.FindAffectedAPIs(class, method)

	if OutputFormat(formatFlag) == FormatHuman {
		if len(affected) == 0 {
			fmt.Println("No reachable endpoints found.")
			return nil
		}
		for _, a := range affected {
			fmt.Printf("%-6s %-40s <- %s.%s (%s:%d)\n",
				a.Endpoint.Verb, a.Endpoint.Path,
				a.Site.CallerClass, a.Site.CallerMethod, a.Site.File, a.Site.Line)
		}
		return nil
	}

	out, err := FormatResponse(affected, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, out)
	return nil
}
