package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/keshon/coinbridge/internal/relay"
)

func statusCmd() *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Probe the economy API",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadRelay()
			if err != nil {
				return err
			}
			report := d.Status(cmd.Context())
			if jsonOutput {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			printStatus(cmd.OutOrStdout(), report)
			if !report.APIAvailable {
				return fmt.Errorf("economy api unreachable")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func balanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balance [discordId]",
		Short: "Show the balance linked to a Discord user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadRelay()
			if err != nil {
				return err
			}
			reply := d.Balance(cmd.Context(), args[0])
			printReply(cmd.OutOrStdout(), reply)
			return exitOnFailure(cmd, reply)
		},
	}
}

func transferCmd() *cobra.Command {
	var message string
	cmd := &cobra.Command{
		Use:   "transfer [senderDiscordId] [receiver] [amount]",
		Short: "Send coins on behalf of a Discord user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadRelay()
			if err != nil {
				return err
			}
			reply := d.Transfer(cmd.Context(), relay.TransferInput{
				SenderID:    args[0],
				Receiver:    args[1],
				RawAmount:   args[2],
				Description: message,
			})
			printReply(cmd.OutOrStdout(), reply)
			return exitOnFailure(cmd, reply)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "note attached to the transfer")
	return cmd
}

func linkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "link [discordId] [displayName]",
		Short: "Request a verification code for a Discord user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadRelay()
			if err != nil {
				return err
			}
			reply := d.Link(cmd.Context(), args[0], args[1])
			printReply(cmd.OutOrStdout(), reply)
			return exitOnFailure(cmd, reply)
		},
	}
}

func topCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "top",
		Short: "Show the richest players",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadRelay()
			if err != nil {
				return err
			}
			reply := d.Top(cmd.Context(), limit)
			printReply(cmd.OutOrStdout(), reply)
			return exitOnFailure(cmd, reply)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of players (default TOP_LIMIT)")
	return cmd
}

func printReply(w io.Writer, r *relay.Reply) {
	if !r.OK() {
		return
	}
	switch r.Action {
	case "balance":
		fmt.Fprintf(w, "Balance: %s coins\n", coins(r.Balance))
	case "transfer":
		fmt.Fprintf(w, "Sent %s coins to %s. New balance: %s coins\n", coins(r.Amount), r.Receiver, coins(r.NewBalance))
	case "link":
		fmt.Fprintf(w, "Verification code: %s\nRun in-game: /setdiscord %s\n", r.Code, r.Code)
	case "top":
		if len(r.Players) == 0 {
			fmt.Fprintln(w, "The leaderboard is unavailable.")
			break
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tPLAYER\tBALANCE")
		for n, p := range r.Players {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", n+1, p.Name, coins(p.Balance))
		}
		tw.Flush()
	}
	if r.Warning != "" {
		fmt.Fprintln(w, "warning:", r.Warning)
	}
}

func printStatus(w io.Writer, rep relay.StatusReport) {
	api := "reachable"
	if !rep.APIAvailable {
		api = "unreachable"
	}
	fmt.Fprintf(w, "Economy API: %s (%s)\n", api, rep.Took.Round(time.Millisecond))
	if rep.FallbackEnabled {
		fmt.Fprintf(w, "Fallback store: %d links, %d balances, %d pending codes\n",
			rep.Fallback.Links, rep.Fallback.Balances, rep.Fallback.PendingCodes)
	} else {
		fmt.Fprintln(w, "Fallback store: disabled")
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func coins(v float64) string {
	return fmt.Sprintf("%g", v)
}
