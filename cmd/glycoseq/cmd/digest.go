package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ruizhang84/GlycoHybridSeq/pkg/core"
	"github.com/ruizhang84/GlycoHybridSeq/pkg/reader/fasta"
)

var (
	digestInput  string
	digestOutput string
)

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print the glycopeptides digested from a FASTA file",
	Long: `Digest a protein database in silico and print every peptide carrying an
N-X-S/T sequon, one per line with its neutral mass. Modified residues are
rendered with their labels, e.g. M* for oxidized methionine.

Example:
  glycoseq digest -d human.fasta --proteases TG --missed-cleavages 2
  glycoseq digest -d human.fasta --modifications oxidation -o peptides.tsv`,
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().StringVarP(&digestInput, "database", "d", "", "Protein database FASTA file (required)")
	digestCmd.Flags().StringVarP(&digestOutput, "output", "o", "", "Output file (default: stdout)")
	addDigestionFlags(digestCmd.Flags())

	digestCmd.MarkFlagRequired("database")
}

func runDigest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	proteins, err := fasta.ReadFile(digestInput)
	if err != nil {
		return err
	}
	peptides, err := digest(cfg, proteins)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if digestOutput != "" {
		f, err := os.Create(digestOutput)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}

	bw := bufio.NewWriter(out)
	for _, p := range peptides {
		fmt.Fprintf(bw, "%s\t%.4f\n", core.Interpret(p), core.PeptideMass(p))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write peptides: %w", err)
	}

	if digestOutput != "" {
		fmt.Printf("Wrote %d peptides from %d proteins to %s\n", len(peptides), len(proteins), digestOutput)
	}
	return nil
}
