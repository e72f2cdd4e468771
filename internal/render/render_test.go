package render

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleitw/discuss/internal/comments"
	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/remoteconfig"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Hello world and more", PlainText("<p>Hello <b>world</b></p>\n<p>and   more</p>"))
	assert.Equal(t, "plain", PlainText("plain"))
}

func TestSocialDate(t *testing.T) {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "just now", SocialDate(now.Add(-10*time.Second), now))
	assert.Equal(t, "3 minutes ago", SocialDate(now.Add(-3*time.Minute), now))
	assert.Equal(t, "2 days ago", SocialDate(now.Add(-48*time.Hour), now))
	assert.Equal(t, "Jan 5, 2024", SocialDate(time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC), now))
	assert.Equal(t, "", SocialDate(time.Time{}, now))
}

func TestTopics(t *testing.T) {
	id := "w1"
	var buf bytes.Buffer
	require.NoError(t, Topics(&buf, []discussion.Topic{
		{ID: &id, Name: "Week 1", Children: []discussion.Topic{{Name: "Quiz"}}},
	}))
	out := buf.String()
	assert.Contains(t, out, "Week 1")
	assert.Contains(t, out, "  Quiz")
	assert.Contains(t, out, "w1")

	buf.Reset()
	require.NoError(t, Topics(&buf, nil))
	assert.Equal(t, "No topics found.\n", buf.String())
}

func TestThreads(t *testing.T) {
	now := time.Now()
	created := now.Add(-2 * time.Hour)
	var buf bytes.Buffer
	require.NoError(t, Threads(&buf, []discussion.Thread{
		{ID: "th1", Title: "Exam date", Author: "alice", VoteCount: 3, Type: discussion.ThreadTypeQuestion, CreatedAt: &created},
		{ID: "th2", Title: "Welcome", Author: "staff", Pinned: true, CreatedAt: &created},
	}, now))
	out := buf.String()
	assert.Contains(t, out, "? Exam date")
	assert.Contains(t, out, "[pinned] Welcome")
	assert.Contains(t, out, "alice")
	assert.Contains(t, out, "2 hours ago")
}

func TestResponsesUsesRenderedBody(t *testing.T) {
	var buf bytes.Buffer
	Responses(&buf, []discussion.Comment{
		{ID: "r1", Author: "bob", RawBody: "**raw**", RenderedBody: "<p><strong>raw</strong></p>", AbuseFlagged: true,
			Children: []discussion.Comment{{ID: "c1", Author: "carol", RawBody: "reply"}}},
	}, time.Now())
	out := buf.String()
	assert.Contains(t, out, "raw\n")
	assert.NotContains(t, out, "<p>")
	assert.Contains(t, out, "reported")
	assert.Contains(t, out, "    reply")
}

func TestCommentRows(t *testing.T) {
	now := time.Now()
	var buf bytes.Buffer
	CommentRows(&buf,
		comments.ResponseItem{Body: "response", Author: "staff", CreatedAt: now},
		[]comments.ResponseItem{{Body: "first", Author: "alice", CreatedAt: now, Flagged: true}},
		now)
	out := buf.String()
	assert.Contains(t, out, "[0] response")
	assert.Contains(t, out, "[1] first")
	assert.Contains(t, out, "reported")
}

func TestTheme(t *testing.T) {
	var buf bytes.Buffer
	Theme(&buf, remoteconfig.NewThemeConfig(map[string]any{
		"mode": "dark",
		"font": map[string]any{"enabled": true, "name": "Inter"},
	}))
	out := buf.String()
	assert.Contains(t, out, "Mode:  dark")
	assert.Contains(t, out, "Font:  Inter")
	assert.Contains(t, out, "Color: disabled")
	assert.Contains(t, out, "Icon:  -")
}
