package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var voteCmd = &cobra.Command{
	Use:   "vote <thread|response> <id>",
	Short: "Vote on a thread or a response",
	Args:  cobra.ExactArgs(2),
	RunE:  runVote,
}

var flagCmd = &cobra.Command{
	Use:   "flag <thread|comment> <id>",
	Short: "Report a thread, response or comment",
	Args:  cobra.ExactArgs(2),
	RunE:  runFlag,
}

var undo bool

func init() {
	rootCmd.AddCommand(voteCmd, flagCmd)

	voteCmd.Flags().BoolVar(&undo, "undo", false, "remove the vote instead")
	flagCmd.Flags().BoolVar(&undo, "undo", false, "remove the report instead")
}

func runVote(cmd *cobra.Command, args []string) error {
	kind, id := args[0], args[1]

	var count int
	switch kind {
	case "thread":
		thread, err := client.VoteThread(cmd.Context(), id, !undo)
		if err != nil {
			return err
		}
		count = thread.VoteCount
	case "response":
		response, err := client.VoteResponse(cmd.Context(), id, !undo)
		if err != nil {
			return err
		}
		count = response.VoteCount
	default:
		return errUnknownKind(kind, "thread", "response")
	}

	color.Green("Votes: %d", count)
	return nil
}

func runFlag(cmd *cobra.Command, args []string) error {
	kind, id := args[0], args[1]

	var flagged bool
	switch kind {
	case "thread":
		thread, err := client.FlagThread(cmd.Context(), id, !undo)
		if err != nil {
			return err
		}
		flagged = thread.AbuseFlagged
	case "comment", "response":
		comment, err := client.FlagComment(cmd.Context(), id, !undo)
		if err != nil {
			return err
		}
		flagged = comment.AbuseFlagged
	default:
		return errUnknownKind(kind, "thread", "comment")
	}

	if flagged {
		color.Yellow("Reported %s %s", kind, id)
	} else {
		color.Green("Report removed from %s %s", kind, id)
	}
	return nil
}
