package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"orgroster/internal/domain"
)

func newUnitCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage organizational units",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <location>",
			Short: "Add a unit",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				unit, err := roster.AddUnit(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), unit)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List units",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				units, err := roster.ListUnits(cmd.Context())
				if err != nil {
					return err
				}
				return printUnits(cmd.OutOrStdout(), units)
			},
		},
		&cobra.Command{
			Use:   "rename <id> <name> <location>",
			Short: "Change a unit's name and location",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("unit", args[0])
				if err != nil {
					return err
				}
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				unit, err := roster.RenameUnit(cmd.Context(), id, args[1], args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), unit)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove a unit (its members keep the dangling unit id)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("unit", args[0])
				if err != nil {
					return err
				}
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				if err := roster.RemoveUnit(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed unit %d\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "members <id>",
			Short: "List the members of a unit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("unit", args[0])
				if err != nil {
					return err
				}
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				unit, err := roster.GetUnit(cmd.Context(), id)
				if err != nil {
					return err
				}
				members, err := roster.Membership().MembersOf(cmd.Context(), unit)
				if err != nil {
					return err
				}
				return printMembers(cmd.OutOrStdout(), members)
			},
		},
	)

	return cmd
}

func printUnits(w io.Writer, units []*domain.Unit) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLOCATION")
	for _, u := range units {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", u.ID, u.Name, u.Location)
	}
	return tw.Flush()
}
