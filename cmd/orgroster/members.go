package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"orgroster/internal/domain"
)

func newMemberCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage unit members",
	}

	var unitFilter int64
	list := &cobra.Command{
		Use:   "list",
		Short: "List members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			roster, err := a.service(cmd.Context())
			if err != nil {
				return err
			}
			members, err := roster.ListMembers(cmd.Context(), unitFilter)
			if err != nil {
				return err
			}
			return printMembers(cmd.OutOrStdout(), members)
		},
	}
	list.Flags().Int64Var(&unitFilter, "unit", 0, "only list members of this unit id")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name> <title> <unit-id>",
			Short: "Add a member to a unit",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				unitID, err := parseID("unit", args[2])
				if err != nil {
					return err
				}
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				member, err := roster.AddMember(cmd.Context(), args[0], args[1], unitID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), member)
				return nil
			},
		},
		list,
		&cobra.Command{
			Use:   "move <id> <unit-id>",
			Short: "Assign a member to another unit",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("member", args[0])
				if err != nil {
					return err
				}
				unitID, err := parseID("unit", args[1])
				if err != nil {
					return err
				}
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				member, err := roster.MoveMember(cmd.Context(), id, unitID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), member)
				return nil
			},
		},
		&cobra.Command{
			Use:   "rm <id>",
			Short: "Remove a member",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID("member", args[0])
				if err != nil {
					return err
				}
				roster, err := a.service(cmd.Context())
				if err != nil {
					return err
				}
				if err := roster.RemoveMember(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed member %d\n", id)
				return nil
			},
		},
	)

	return cmd
}

func printMembers(w io.Writer, members []*domain.Member) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTITLE\tUNIT")
	for _, m := range members {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", m.ID, m.Name, m.Title, m.UnitID)
	}
	return tw.Flush()
}
