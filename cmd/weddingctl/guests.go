package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"casamento/internal/models"
	"casamento/internal/repository"
	"casamento/internal/service"
)

func newInviteCmd(a *app) *cobra.Command {
	var name, email, phone string

	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Create a guest and print their invitation code",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			guests := service.NewGuestService(repository.NewGuestRepository(db), nil, a.log)
			guest, err := guests.Invite(ctx, name, email, phone)
			if err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", guest.InvitationCode, guest.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Guest name (required)")
	cmd.Flags().StringVar(&email, "email", "", "Guest email")
	cmd.Flags().StringVar(&phone, "phone", "", "Guest phone")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show RSVP counts per event",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.openDB(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer db.Close()

			counts, err := service.NewGuestService(repository.NewGuestRepository(db), nil, a.log).Summary(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "EVENTO\tPENDENTE\tCONFIRMADO\tRECUSADO")
			for _, e := range models.Events {
				c := counts[e]
				fmt.Fprintf(tw, "%s\t%d\t%d\t%d\n", e.Label(), c[models.RSVPPending], c[models.RSVPConfirmed], c[models.RSVPDeclined])
			}
			return tw.Flush()
		},
	}
}
