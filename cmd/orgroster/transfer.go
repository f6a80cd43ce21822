package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"orgroster/internal/codec"
)

func newExportCmd(a *app) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole roster as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}
			roster, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			snapshot, err := roster.Export(cmd.Context())
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return c.Export(snapshot, cmd.OutOrStdout())
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := c.Export(snapshot, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format (yaml, json)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add every unit and member from a YAML or JSON roster",
		Long: `Add every unit and member from a roster file as new rows.
Unit ids in the file are only used to link members to their units; the
database assigns fresh ids. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if format == "" {
				format = formatFromPath(path)
			}
			c, err := codec.ForFormat(format)
			if err != nil {
				return err
			}

			var r io.Reader = cmd.InOrStdin()
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("open %s: %w", path, err)
				}
				defer f.Close()
				r = f
			}

			snapshot, err := c.Parse(r)
			if err != nil {
				return err
			}
			roster, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			result, err := roster.Import(cmd.Context(), snapshot)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d units, %d members\n", result.Units, result.Members)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "input format (yaml, json); inferred from the file extension")
	return cmd
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return "json"
	}
	return "yaml"
}
