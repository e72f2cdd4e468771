package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/comments"
	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/remoteconfig"
)

const socialWindow = 7 * 24 * time.Hour

var (
	faint  = color.New(color.Faint)
	header = color.New(color.Bold)
	alert  = color.New(color.FgRed)
)

// PlainText flattens a rendered HTML body to whitespace-normalized text.
func PlainText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		logrus.WithError(err).Error("goquery.NewDocumentFromReader failed")
		return html
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// SocialDate formats t relative to now for recent dates and as a calendar
// date otherwise.
func SocialDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	if d := now.Sub(t); d >= 0 && d < socialWindow {
		if d < time.Minute {
			return "just now"
		}
		return humanize.RelTime(t, now, "ago", "from now")
	}
	return t.Format("Jan 2, 2006")
}

func body(raw, rendered string) string {
	if rendered != "" {
		return PlainText(rendered)
	}
	return raw
}

func dateOf(t *time.Time, now time.Time) string {
	if t == nil {
		return ""
	}
	return SocialDate(*t, now)
}

func Topics(w io.Writer, topics []discussion.Topic) error {
	if len(topics) == 0 {
		_, err := fmt.Fprintln(w, "No topics found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tID")
	for _, t := range topics {
		fmt.Fprintf(tw, "%s\t%s\n", t.Name, idOrDash(t.ID))
		for _, c := range t.Children {
			fmt.Fprintf(tw, "  %s\t%s\n", c.Name, idOrDash(c.ID))
		}
	}
	return tw.Flush()
}

func idOrDash(id *string) string {
	if id == nil {
		return "-"
	}
	return *id
}

func Threads(w io.Writer, threads []discussion.Thread, now time.Time) error {
	if len(threads) == 0 {
		_, err := fmt.Fprintln(w, "No threads found.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tAUTHOR\tVOTES\tRESPONSES\tUPDATED\tID")
	for _, t := range threads {
		title := t.Title
		if t.Pinned {
			title = "[pinned] " + title
		}
		if t.Type == discussion.ThreadTypeQuestion {
			title = "? " + title
		}
		updated := t.UpdatedAt
		if updated == nil {
			updated = t.CreatedAt
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n", title, t.Author, t.VoteCount, t.CommentCount, dateOf(updated, now), t.ID)
	}
	return tw.Flush()
}

func Thread(w io.Writer, t *discussion.Thread, now time.Time) {
	header.Fprintf(w, "%s\n", t.Title)
	faint.Fprintf(w, "by %s %s · %d votes", t.Author, dateOf(t.CreatedAt, now), t.VoteCount)
	if t.Following {
		faint.Fprint(w, " · following")
	}
	fmt.Fprintln(w)
	if t.AbuseFlagged {
		alert.Fprintln(w, "reported")
	}
	fmt.Fprintln(w, body(t.RawBody, t.RenderedBody))
}

func Responses(w io.Writer, responses []discussion.Comment, now time.Time) {
	if len(responses) == 0 {
		fmt.Fprintln(w, "No responses yet.")
		return
	}
	for _, r := range responses {
		comment(w, r, "", now)
		for _, c := range r.Children {
			comment(w, c, "    ", now)
		}
	}
}

func comment(w io.Writer, c discussion.Comment, indent string, now time.Time) {
	fmt.Fprintf(w, "%s─────────────────────────────────\n", indent)
	faint.Fprintf(w, "%s%s · %s · %d votes · %s", indent, c.Author, dateOf(c.CreatedAt, now), c.VoteCount, c.ID)
	if c.Endorsed {
		faint.Fprint(w, " · endorsed")
	}
	if c.AbuseFlagged {
		alert.Fprint(w, " · reported")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s%s\n", indent, body(c.RawBody, c.RenderedBody))
}

// CommentRows prints a comment list the way it is laid out on screen: the
// response first, then one numbered row per comment.
func CommentRows(w io.Writer, response comments.ResponseItem, items []comments.ResponseItem, now time.Time) {
	header.Fprintf(w, "[0] %s\n", response.Body)
	faint.Fprintf(w, "    %s · %s · %d comments\n", response.Author, SocialDate(response.CreatedAt, now), len(items))
	for i, item := range items {
		fmt.Fprintf(w, "[%d] %s\n", i+1, item.Body)
		faint.Fprintf(w, "    %s · %s", item.Author, SocialDate(item.CreatedAt, now))
		if item.Flagged {
			alert.Fprint(w, " · reported")
		}
		fmt.Fprintln(w)
	}
}

func Theme(w io.Writer, theme *remoteconfig.ThemeConfig) {
	if theme == nil {
		fmt.Fprintln(w, "No theme loaded.")
		return
	}
	fmt.Fprintf(w, "Icon:  %s\n", idOrDash(theme.Icon))
	fmt.Fprintf(w, "Mode:  %s\n", idOrDash(theme.Mode))
	if name, ok := theme.FontName(); ok {
		fmt.Fprintf(w, "Font:  %s\n", name)
	} else {
		fmt.Fprintln(w, "Font:  disabled")
	}
	if name, ok := theme.ColorName(); ok {
		fmt.Fprintf(w, "Color: %s\n", name)
	} else {
		fmt.Fprintln(w, "Color: disabled")
	}
}
