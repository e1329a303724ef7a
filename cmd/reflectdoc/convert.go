package main

import (
	"github.com/cockroachdb/errors"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"reflectdoc/internal/converter"
	"reflectdoc/internal/pipeline"
)

var (
	outPath      string
	includeTests bool
	noStore      bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [paths...]",
	Short: "Convert Go files or directories and store the result as a new run",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()

		run := pipeline.NewConvertRun(opts, log)
		run.OutPath = outPath
		run.Stdout = cmd.OutOrStdout()
		run.IncludeTests = includeTests
		run.NoStore = noStore

		res, err := run.Run(cmd.Context(), args)
		if err != nil {
			var diagErr *converter.DiagnosticsError
			if errors.As(err, &diagErr) {
				printer := pterm.Error.WithWriter(cmd.ErrOrStderr())
				for _, d := range diagErr.Diagnostics {
					printer.Println(d.String())
				}
				return errors.Newf("compilation failed with %d diagnostics", len(diagErr.Diagnostics))
			}
			return err
		}

		if res.RunID != "" && outPath != "-" {
			pterm.Success.WithWriter(cmd.OutOrStdout()).Printfln("run %s: %d reflections, %d dangling references",
				res.RunID, res.Project.Len(), len(res.Project.DanglingReferences()))
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the JSON document to this file (\"-\" for stdout)")
	convertCmd.Flags().BoolVar(&includeTests, "tests", false, "Include _test.go files found in directories")
	convertCmd.Flags().BoolVar(&noStore, "no-store", false, "Do not save the run to the database")
}
