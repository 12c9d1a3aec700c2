package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/glycan"
)

var listGlycans bool

var glycansCmd = &cobra.Command{
	Use:   "glycans",
	Short: "Enumerate the glycan search space",
	Long: `Build the glycan structures allowed by the residue bounds and classes
and print their counts. With --list every structure is printed with its
class, composition, mass and ID.

Example:
  glycoseq glycans --classes CHM --hexnac 7 --hex 9 --list`,
	RunE: runGlycans,
}

func init() {
	addGlycanFlags(glycansCmd.Flags())
	glycansCmd.Flags().BoolVar(&listGlycans, "list", false, "Print every structure")
}

func runGlycans(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	classes, _ := cfg.GlycanClasses()

	universe, err := glycan.Build(cfg.Glycan, classes...)
	if err != nil {
		return err
	}

	fmt.Printf("Structures: %d (%s)\n", universe.Len(), formatClasses(universe))
	fmt.Printf("Distinct masses: %d\n", len(universe.Masses()))
	if !listGlycans {
		return nil
	}

	for _, g := range universe.Glycans() {
		fmt.Printf("%s\t%s\t%.4f\t%s\n", g.Class, g.Name(), g.Mass, g.ID)
	}
	return nil
}
