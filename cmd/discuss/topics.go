package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/davidleitw/discuss/internal/render"
)

var errCourseRequired = errors.New("--course is required")

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List the discussion topics of a course",
	RunE:  runTopics,
}

func init() {
	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	if err := requireCourse(); err != nil {
		return err
	}

	topics, err := client.GetCourseTopics(cmd.Context(), courseID)
	if err != nil {
		return err
	}
	return render.Topics(os.Stdout, topics)
}

func errUnknownKind(kind string, allowed ...string) error {
	return fmt.Errorf("unknown kind %q, expected one of %v", kind, allowed)
}
