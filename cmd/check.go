package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/querylint/querylint/pkg/autofix"
	"github.com/querylint/querylint/pkg/check"
	"github.com/querylint/querylint/pkg/config"
)

var (
	shape      string
	marker     string
	array      bool
	annotation string
)

var checkCmd = &cobra.Command{
	Use:   "check <sql>",
	Short: "Infer the result type of one query and optionally compare an annotation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markerName := marker
		if markerName == "" {
			markerName = viper.GetString("annotation.marker")
		}
		shapeName := shape
		if shapeName == "" {
			shapeName = viper.GetString("annotation.shape")
		}
		format, err := check.FormatFor(config.ShapeName(shapeName), markerName, array)
		if err != nil {
			return err
		}

		req := check.Request{SQL: args[0], Format: format}
		if annotation != "" {
			req.AnnotationText = annotation
			req.Source = annotation
			req.Annotation = autofix.Annotation{Present: true, Start: 0, End: len(annotation)}
		}

		result, err := Checker.Check(cmd.Context(), req)
		if err != nil {
			return err
		}
		if result.Skipped {
			fmt.Printf("skipped: %s\n", result.SkipReason)
			return nil
		}

		fmt.Println(result.Rendered)
		if len(result.Discrepancies) == 0 {
			return nil
		}
		for _, d := range result.Discrepancies {
			fmt.Printf("  %s: %s\n", d.Kind, d.Message())
		}
		return fmt.Errorf("%d discrepancies found", len(result.Discrepancies))
	},
}

func init() {
	checkCmd.Flags().StringVar(&shape, "shape", "", "annotation shape: object, wrapped, nested or tuple")
	checkCmd.Flags().StringVar(&marker, "marker", "", "wrapper type name for wrapped/nested shapes")
	checkCmd.Flags().BoolVar(&array, "array", true, "append the array suffix")
	checkCmd.Flags().StringVar(&annotation, "annotation", "", "declared annotation text to compare against")

	RootCmd.AddCommand(checkCmd)
}
