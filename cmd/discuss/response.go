package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davidleitw/discuss/internal/comments"
	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/render"
	"github.com/davidleitw/discuss/internal/rule"
)

var responsesCmd = &cobra.Command{
	Use:   "responses <thread-id>",
	Short: "Show the responses of a thread",
	Args:  cobra.ExactArgs(1),
	RunE:  runResponses,
}

var commentsCmd = &cobra.Command{
	Use:   "comments <thread-id> <response-id>",
	Short: "Show the comments under a response",
	Args:  cobra.ExactArgs(2),
	RunE:  runComments,
}

var respondCmd = &cobra.Command{
	Use:   "respond <thread-id> <body>",
	Short: "Post a response to a thread",
	Args:  cobra.ExactArgs(2),
	RunE:  runRespond,
}

var commentCmd = &cobra.Command{
	Use:   "comment <thread-id> <response-id> <body>",
	Short: "Comment on a response",
	Args:  cobra.ExactArgs(3),
	RunE:  runComment,
}

var reportCmd = &cobra.Command{
	Use:   "report <thread-id> <response-id> <row>",
	Short: "Report the comment at a row of a response's comment list",
	Args:  cobra.ExactArgs(3),
	RunE:  runReport,
}

var responsesPage int

func init() {
	rootCmd.AddCommand(responsesCmd, commentsCmd, respondCmd, commentCmd, reportCmd)

	responsesCmd.Flags().IntVar(&responsesPage, "page", 0, "page of responses to show")
}

func runResponses(cmd *cobra.Command, args []string) error {
	responses, err := client.GetResponses(cmd.Context(), args[0], responsesPage)
	if err != nil {
		return err
	}
	render.Responses(os.Stdout, responses, now())
	return nil
}

func runRespond(cmd *cobra.Command, args []string) error {
	response, err := client.CreateComment(cmd.Context(), discussion.NewComment{ThreadID: args[0], RawBody: args[1]})
	if err != nil {
		return fmt.Errorf("failed to post response: %w", err)
	}

	color.Green("Posted response")
	fmt.Printf("ID: %s\n", response.ID)
	return nil
}

// loadCommentList finds the response on the thread's response pages and builds
// its comment list.
func loadCommentList(cmd *cobra.Command, threadID, responseID string) (*comments.List, error) {
	for page := 1; page <= rule.DefaultMaxPages; page++ {
		responses, err := client.GetResponses(cmd.Context(), threadID, page)
		if err != nil {
			return nil, err
		}
		for _, r := range responses {
			if r.ID != responseID {
				continue
			}
			item, ok := comments.NewResponseItem(r)
			if !ok {
				return nil, fmt.Errorf("response %s is incomplete", responseID)
			}
			return comments.NewList(client, item), nil
		}
		if len(responses) < discussion.ResponsesPageSize {
			break
		}
	}
	return nil, fmt.Errorf("response not found: %s", responseID)
}

func runComments(cmd *cobra.Command, args []string) error {
	list, err := loadCommentList(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	render.CommentRows(os.Stdout, list.Response(), list.Items(), now())
	return nil
}

func runComment(cmd *cobra.Command, args []string) error {
	list, err := loadCommentList(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	list.OnChange(func(items []comments.ResponseItem) {
		render.CommentRows(os.Stdout, list.Response(), items, now())
	})

	if _, err := list.Post(cmd.Context(), args[2]); err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}
	color.Green("Posted comment")
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	row, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid row %q: %w", args[2], err)
	}

	list, err := loadCommentList(cmd, args[0], args[1])
	if err != nil {
		return err
	}
	if err := list.Flag(cmd.Context(), row); err != nil {
		return err
	}
	color.Yellow("Reported comment at row %d", row)
	return nil
}
