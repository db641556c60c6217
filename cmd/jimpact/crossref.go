package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jimpact/internal/config"
	"jimpact/internal/crossref"
	"jimpact/internal/export"
)

var (
	crossrefMethods  []string
	crossrefProjects []string
	crossrefDepth    int
	crossrefOut      string
)

var crossrefCmd = &cobra.Command{
	Use:   "crossref <fullyQualifiedClass>",
	Short: "Find cross-repository impact of a changed class",
	Long: `Scan every configured sibling repository for impact of changing the
given class: class references, endpoints reachable from the changed
methods, intermediate-layer consumers, and controllers discovered through
recursive escalation.

Sibling roots come from --project flags or from the projects list in
.jimpact/config.json under the primary root.

Examples:
  jimpact crossref com.svc.UserService --method getUserById
  jimpact crossref com.svc.UserService --method getUserById --method listUsers \
      --project billing=../billing --project gateway=../gateway \
      --out impact.json.gz`,
	Args: cobra.ExactArgs(1),
	RunE: runCrossref,
}

func init() {
	crossrefCmd.Flags().StringArrayVar(&crossrefMethods, "method", nil, "Changed method name (repeatable)")
	crossrefCmd.Flags().StringArrayVar(&crossrefProjects, "project", nil, "Sibling root as name=path (repeatable)")
	crossrefCmd.Flags().IntVar(&crossrefDepth, "depth", crossref.DefaultMaxCrossRefDepth, "Maximum recursive escalation depth")
	crossrefCmd.Flags().StringVar(&crossrefOut, "out", "", "Also write the run as gzip JSON to this file")
	rootCmd.AddCommand(crossrefCmd)
}

func runCrossref(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSetup()
	if err != nil {
		return err
	}
	fqcn := args[0]

	siblings, err := resolveSiblings(crossrefProjects, cfg)
	if err != nil {
		return err
	}
	if len(siblings) == 0 {
		return fmt.Errorf("no sibling projects configured; pass --project name=path or add them to .jimpact/config.json")
	}

	engine := crossref.NewEngine(
		crossref.RootSpec{Name: "primary", Path: rootFlag},
		siblings,
		crossref.Options{
			MaxTraceDepth:    cfg.Analysis.MaxTraceDepth,
			MaxCrossRefDepth: crossrefDepth,
			ArenaSize:        cfg.Analysis.ParseCacheSize,
			ExcludeDirs:      cfg.Analysis.ExcludeDirs,
			Logger:           logger,
		},
	)

	records := engine.Analyze(fqcn, crossrefMethods)

	if crossrefOut != "" {
		if err := writeRun(crossrefOut, engine.RunID(), fqcn, crossrefMethods, records); err != nil {
			return err
		}
	}

	if OutputFormat(formatFlag) == FormatHuman {
		printRecordsHuman(records)
		return nil
	}

	out, err := FormatResponse(records, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

// resolveSiblings merges --project flags with the config file; flags win.
func resolveSiblings(flags []string, cfg *config.Config) ([]crossref.RootSpec, error) {
	var specs []crossref.RootSpec
	for _, f := range flags {
		name, path, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --project value %q, expected name=path", f)
		}
		specs = append(specs, crossref.RootSpec{Name: name, Path: path})
	}
	if len(specs) == 0 && cfg != nil {
		for _, p := range cfg.Projects {
			specs = append(specs, crossref.RootSpec{Name: p.Name, Path: p.Path})
		}
	}
	return specs, nil
}

func writeRun(path, runID, class string, methods []string, records []crossref.ImpactRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return export.Write(f, export.Run{
		RunID:   runID,
		Class:   class,
		Methods: methods,
		Records: records,
	})
}

func printRecordsHuman(records []crossref.ImpactRecord) {
	if len(records) == 0 {
		fmt.Println("No cross-repository impact found.")
		return
	}
	for _, r := range records {
		loc := fmt.Sprintf("%s:%d", r.File, r.Line)
		switch r.Kind {
		case crossref.KindAPICall:
			fmt.Printf("[%s] %-14s %-30s %s\n", r.Project, r.Kind, r.Endpoint, loc)
		default:
			fmt.Printf("[%s] %-14s %-30s %s\n", r.Project, r.Kind, r.Detail, loc)
		}
	}
}
