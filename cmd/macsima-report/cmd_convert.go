package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/askiada/macsima-report/internal/xlsx"
	"github.com/askiada/macsima-report/pkg/macsima"
	"github.com/askiada/macsima-report/pkg/pipeline/drawer"
	"github.com/askiada/macsima-report/pkg/pipeline/measure"
	"github.com/askiada/macsima-report/pkg/pipeline/model"
	"github.com/askiada/macsima-report/pkg/report"
)

var (
	convertOutput string
	convertDraw   string
)

var convertCmd = &cobra.Command{
	Use:   "convert <run-record.json>",
	Short: "Convert one run record to a spreadsheet report",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "Output workbook path (default: input with .xlsx extension)")
	convertCmd.Flags().StringVar(&convertDraw, "draw", "", "Write a DOT diagram of the assembly pipeline to this path")
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]

	in, err := os.Open(input)
	if err != nil {
		return errors.Wrap(err, "unable to open run record")
	}
	defer in.Close()

	doc, err := macsima.Decode(in)
	if err != nil {
		return err
	}

	assembler := report.NewAssembler(
		report.WithLogger(logger),
		report.WithPipelineOptions(observers()...),
	)

	rpt, err := assembler.Assemble(cmd.Context(), doc)
	if err != nil {
		return err
	}

	output := convertOutput
	if output == "" {
		output = strings.TrimSuffix(input, ".json") + ".xlsx"
	}

	out, err := os.Create(output)
	if err != nil {
		return errors.Wrap(err, "unable to create workbook file")
	}
	defer out.Close()

	if err := xlsx.Write(out, rpt); err != nil {
		return err
	}

	logger.Info("report written", zap.String("input", input), zap.String("output", output))

	return nil
}

// observers builds the pipeline diagnostics requested on the command line.
// Drawing needs a measure to colour the edges, so --draw implies one.
func observers() []model.PipelineOption {
	if convertDraw == "" {
		return nil
	}

	msr := measure.NewDefaultMeasure()

	return []model.PipelineOption{
		measure.PipelineMeasure(msr),
		drawer.PipelineDrawer(drawer.NewDOTDrawer(convertDraw), msr),
	}
}
