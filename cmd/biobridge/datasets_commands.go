package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"biobridge/internal/dataset"
)

func newDatasetsCommand(ctx *commandContext) *cobra.Command {
	datasetsCmd := &cobra.Command{
		Use:   "datasets",
		Short: "Manage the dataset catalog",
	}

	datasetsCmd.AddCommand(newDatasetsListCommand(ctx))
	datasetsCmd.AddCommand(newDatasetsImportCommand(ctx))
	datasetsCmd.AddCommand(newDatasetsShowCommand(ctx))
	datasetsCmd.AddCommand(newDatasetsExportCommand(ctx))
	datasetsCmd.AddCommand(newDatasetsDeleteCommand(ctx))

	return datasetsCmd
}

func newDatasetsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog datasets",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			infos, err := catalog.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog is empty")
				return nil
			}

			rows := make([][]string, 0, len(infos))
			for _, info := range infos {
				rows = append(rows, []string{
					info.Name,
					strconv.Itoa(info.Rows),
					strconv.Itoa(info.Columns),
					info.UpdatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Name", "Rows", "Columns", "Updated"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}
}

func newDatasetsImportCommand(ctx *commandContext) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file.csv|file.tsv>",
		Short: "Import a delimited file into the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			ds, err := dataset.LoadFile(args[0], strings.TrimSpace(name))
			if err != nil {
				return err
			}
			if err := catalog.Put(cmd.Context(), ds); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d rows into %q\n", ds.Len(), ds.Name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Dataset name (defaults to the file name)")
	return cmd
}

func newDatasetsShowCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Print the first rows of a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			ds, err := catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			shown := ds.Len()
			if limit > 0 && limit < shown {
				shown = limit
			}
			rows := make([][]string, 0, shown)
			for _, record := range ds.Records[:shown] {
				row := make([]string, len(ds.Columns))
				for i, column := range ds.Columns {
					row[i] = record.Get(column)
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(ds.Columns, rows, nil))
			if shown < ds.Len() {
				fmt.Fprintf(cmd.OutOrStdout(), "Showing %d of %d rows\n", shown, ds.Len())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum rows to print (0 for all)")
	return cmd
}

func newDatasetsExportCommand(ctx *commandContext) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export <name>",
		Short: "Write a dataset to a delimited file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			catalog, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			ds, err := catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			target := strings.TrimSpace(outPath)
			if target == "" {
				target = filepath.Join(cfg.Paths.ExportDir, ds.Name+".csv")
			}
			if err := dataset.SaveFile(ds, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d rows to %s\n", ds.Len(), target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Destination file (defaults to the export directory)")
	return cmd
}

func newDatasetsDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a dataset from the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := ctx.openCatalog()
			if err != nil {
				return err
			}
			defer catalog.Close()

			if err := catalog.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted dataset %q\n", args[0])
			return nil
		},
	}
}
