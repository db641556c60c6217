package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"jimpact/internal/mybatis"
)

var mapperDiffPath string

var mapperCmd = &cobra.Command{
	Use:   "mapper <mapper.xml>",
	Short: "Map a changed MyBatis mapper XML to interface methods",
	Long: `Resolve a changed mapper XML file plus its diff to the
(interface, statementId) pairs the change binds to. Statement ids double as
trace targets for the mapper interface.

Examples:
  jimpact mapper src/main/resources/mapper/UserMapper.xml --diff change.patch
  git diff -- UserMapper.xml | jimpact mapper UserMapper.xml --diff -`,
	Args: cobra.ExactArgs(1),
	RunE: runMapper,
}

func init() {
	mapperCmd.Flags().StringVar(&mapperDiffPath, "diff", "-", "Unified diff file, or - for stdin")
	rootCmd.AddCommand(mapperCmd)
}

func runMapper(cmd *cobra.Command, args []string) error {
	_, logger, err := loadSetup()
	if err != nil {
		return err
	}

	diffText, err := readDiff(mapperDiffPath)
	if err != nil {
		return err
	}

	refs := mybatis.NewBinder(logger).AnalyzeXMLChange(args[0], diffText)

	if OutputFormat(formatFlag) == FormatHuman {
		for _, r := range refs {
			fmt.Printf("%s#%s\n", r.Namespace, r.StatementID)
		}
		return nil
	}

	out, err := FormatResponse(refs, OutputFormat(formatFlag))
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}
