package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/render"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "List followed threads in a course",
	RunE:  runThreads,
}

var searchCmd = &cobra.Command{
	Use:   "search <text>",
	Short: "Search threads in a course",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

var newThreadCmd = &cobra.Command{
	Use:   "new-thread <topic-id> <title> <body>",
	Short: "Start a new thread",
	Args:  cobra.ExactArgs(3),
	RunE:  runNewThread,
}

var followCmd = &cobra.Command{
	Use:   "follow <thread-id>",
	Short: "Follow or unfollow a thread",
	Args:  cobra.ExactArgs(1),
	RunE:  runFollow,
}

var (
	asQuestion bool
	unfollow   bool
)

func init() {
	rootCmd.AddCommand(threadsCmd, searchCmd, newThreadCmd, followCmd)

	newThreadCmd.Flags().BoolVar(&asQuestion, "question", false, "post as a question instead of a discussion")
	followCmd.Flags().BoolVar(&unfollow, "unfollow", false, "stop following instead")
}

func runThreads(cmd *cobra.Command, args []string) error {
	if err := requireCourse(); err != nil {
		return err
	}

	threads, err := client.GetThreads(cmd.Context(), courseID)
	if err != nil {
		return err
	}
	return render.Threads(os.Stdout, threads, now())
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := requireCourse(); err != nil {
		return err
	}

	threads, err := client.SearchThreads(cmd.Context(), courseID, args[0])
	if err != nil {
		return err
	}
	return render.Threads(os.Stdout, threads, now())
}

func runNewThread(cmd *cobra.Command, args []string) error {
	if err := requireCourse(); err != nil {
		return err
	}

	threadType := discussion.ThreadTypeDiscussion
	if asQuestion {
		threadType = discussion.ThreadTypeQuestion
	}

	thread, err := client.CreateThread(cmd.Context(), discussion.NewThread{
		CourseID: courseID,
		TopicID:  args[0],
		Type:     threadType,
		Title:    args[1],
		RawBody:  args[2],
	})
	if err != nil {
		return fmt.Errorf("failed to create thread: %w", err)
	}

	color.Green("Created thread: %s", thread.Title)
	fmt.Printf("ID: %s\n", thread.ID)
	return nil
}

func runFollow(cmd *cobra.Command, args []string) error {
	thread, err := client.FollowThread(cmd.Context(), args[0], !unfollow)
	if err != nil {
		return err
	}

	if thread.Following {
		color.Green("Following: %s", thread.Title)
	} else {
		color.Yellow("Not following: %s", thread.Title)
	}
	return nil
}
