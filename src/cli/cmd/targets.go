package cmd

import (
	"os"

	"github.com/sofmeright/buildgate/src/catalog"
	"github.com/sofmeright/buildgate/src/output"
	"github.com/sofmeright/buildgate/src/submit"
	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List the build targets in the catalog",
	Args:  cobra.NoArgs,
	RunE:  runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	cat, err := catalog.LoadFile(cfg.Plan.CatalogFile)
	if err != nil {
		return err
	}

	color := output.ColorMode(cfg.Output.Color)
	sec := output.NewSection(os.Stdout, "Targets", 0, color)
	sec.Row("%-20s%-9s%-16s%s", "target", "family", "builder", "generator")
	sec.Separator()
	for _, id := range cat.IDs() {
		spec, err := cat.Lookup(id)
		if err != nil {
			return err
		}
		sec.Row("%-20s%-9s%-16s%s", id, spec.Family, submit.BuilderName(id), output.Dimmed(spec.Generator, color))
	}
	sec.Close()
	return nil
}
