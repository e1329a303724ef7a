package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored conversion runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListRuns(cmd.Context())
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			pterm.Info.WithWriter(cmd.OutOrStdout()).Println("No runs stored.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tPROJECT\tCREATED\tREFLECTIONS\tDANGLING")
		for _, r := range runs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", r.ID, r.Project, r.CreatedAt.Local().Format(time.DateTime), r.Reflections, r.Dangling)
		}
		return w.Flush()
	},
}

var (
	inspectDocument bool
	inspectKind     string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <run-id>",
	Short: "Show the reflections of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		runID := args[0]
		out := cmd.OutOrStdout()

		if inspectDocument {
			doc, err := store.LoadDocument(ctx, runID)
			if err != nil {
				return err
			}
			_, err = out.Write(doc)
			return err
		}

		rows, err := store.LoadReflections(ctx, runID)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPARENT\tKIND\tNAME\tTYPE\tSOURCE")
		for _, r := range rows {
			if inspectKind != "" && string(r.Kind) != inspectKind {
				continue
			}
			source := ""
			if r.File != "" {
				source = fmt.Sprintf("%s:%d", r.File, r.Line)
			}
			fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%s\t%s\n", r.ID, r.ParentID, r.Kind, r.FullName, r.Type, source)
		}
		if err := w.Flush(); err != nil {
			return err
		}

		dangling, err := store.LoadDanglingReferences(ctx, runID)
		if err != nil {
			return err
		}
		if len(dangling) > 0 {
			pterm.Warning.WithWriter(out).Printfln("dangling references: %v", dangling)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectDocument, "document", false, "Print the stored JSON document instead of the table")
	inspectCmd.Flags().StringVarP(&inspectKind, "kind", "k", "", "Only show reflections of this kind")
}
