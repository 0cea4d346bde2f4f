// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/doc2pages/internal/classify"
	"github.com/pdiddy/doc2pages/internal/pipeline"
	"github.com/pdiddy/doc2pages/pkg/types"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <pdf>",
	Short: "Report whether a PDF is a scanned document",
	Long: `Classify extracts the text of every page of a PDF and counts the pages
with more than --pdf-threshold characters. The PDF is scanned when the rate
of such pages is below --pdf-rate. Exits non-zero for scanned documents.`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringP("output", "o", "text", "output format: text, yaml, or json")

	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("output")

	params := types.ClassifierConfig{
		Threshold: viper.GetInt("pdf-threshold"),
		MinRate:   viper.GetFloat64("pdf-rate"),
	}
	if err := params.Validate(); err != nil {
		return err
	}

	c := classify.New(classify.NewPDFSource(logger), logger)
	result, err := c.Classify(args[0], params.Threshold, params.MinRate)
	if err != nil {
		return err
	}

	if err := writeResult(os.Stdout, format, result); err != nil {
		return err
	}
	if result.IsScanned {
		return &pipeline.ScannedDocumentError{Path: args[0], Result: result}
	}
	return nil
}

func writeResult(w io.Writer, format string, result types.ClassificationResult) error {
	switch format {
	case "text":
		fmt.Fprintf(w, "Total pages: %d\nText pages: %d\nRate: %g\nScanned: %t\n",
			result.TotalPageCount, result.TextPageCount, result.Rate, result.IsScanned)
		return nil
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(result)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	default:
		return &types.InvalidArgumentError{Arg: "output", Reason: fmt.Sprintf("unknown format %q", format)}
	}
}
