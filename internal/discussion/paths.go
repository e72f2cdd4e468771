package discussion

import (
	"fmt"
	"net/url"
)

const (
	ThreadsPath      = "/api/discussion/v1/threads/"
	CommentsPath     = "/api/discussion/v1/comments/"
	CourseTopicsPath = "/api/discussion/v1/course_topics/"

	// ResponsesPageSize is the fixed page size used when listing responses.
	ResponsesPageSize = 20
)

func threadPath(threadID string) string {
	return fmt.Sprintf("%s%s/", ThreadsPath, url.PathEscape(threadID))
}

func commentPath(commentID string) string {
	return fmt.Sprintf("%s%s/", CommentsPath, url.PathEscape(commentID))
}

func courseTopicsPath(courseID string) string {
	return CourseTopicsPath + url.PathEscape(courseID)
}
