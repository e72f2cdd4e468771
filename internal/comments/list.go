package comments

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/discussion"
)

// ResponseItem is one row of a response/comment listing.
type ResponseItem struct {
	Body       string
	Author     string
	CreatedAt  time.Time
	VoteCount  int
	ResponseID string
	ThreadID   string
	Flagged    bool
	Voted      bool
	Children   []discussion.Comment
}

// NewResponseItem reports false when the comment lacks a body, author,
// creation time, id or thread id.
func NewResponseItem(c discussion.Comment) (ResponseItem, bool) {
	if c.RawBody == "" || c.Author == "" || c.CreatedAt == nil || c.ID == "" || c.ThreadID == "" {
		return ResponseItem{}, false
	}
	return ResponseItem{
		Body:       c.RawBody,
		Author:     c.Author,
		CreatedAt:  *c.CreatedAt,
		VoteCount:  c.VoteCount,
		ResponseID: c.ID,
		ThreadID:   c.ThreadID,
		Flagged:    c.AbuseFlagged,
		Voted:      c.Voted,
		Children:   c.Children,
	}, true
}

type commentAPI interface {
	CreateComment(ctx context.Context, comment discussion.NewComment) (*discussion.Comment, error)
	FlagComment(ctx context.Context, commentID string, flagged bool) (*discussion.Comment, error)
}

// List holds the comments under one response. Row 0 is the response itself,
// rows 1..Len() are its comments.
type List struct {
	api      commentAPI
	response ResponseItem

	mu       sync.Mutex
	items    []ResponseItem
	onChange []func([]ResponseItem)
}

func NewList(api commentAPI, response ResponseItem) *List {
	l := &List{api: api, response: response}
	for _, child := range response.Children {
		item, ok := NewResponseItem(child)
		if !ok {
			logrus.WithField("comment_id", child.ID).Debug("comment skipped, missing fields")
			continue
		}
		item.Children = nil
		l.items = append(l.items, item)
	}
	return l
}

func (l *List) Response() ResponseItem {
	return l.response
}

// OnChange registers fn to run with a snapshot after every mutation.
func (l *List) OnChange(fn func([]ResponseItem)) {
	l.mu.Lock()
	l.onChange = append(l.onChange, fn)
	l.mu.Unlock()
}

func (l *List) Items() []ResponseItem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *List) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// At returns the row; row 0 is the parent response.
func (l *List) At(row int) (ResponseItem, error) {
	if row == 0 {
		return l.response, nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if row < 0 || row > len(l.items) {
		return ResponseItem{}, fmt.Errorf("row %d out of range", row)
	}
	return l.items[row-1], nil
}

func (l *List) Append(item ResponseItem) {
	l.mu.Lock()
	l.items = append(l.items, item)
	l.mu.Unlock()
	l.notify()
}

// Post creates a comment under the response and appends it.
func (l *List) Post(ctx context.Context, body string) (ResponseItem, error) {
	created, err := l.api.CreateComment(ctx, discussion.NewComment{
		ThreadID: l.response.ThreadID,
		ParentID: l.response.ResponseID,
		RawBody:  body,
	})
	if err != nil {
		logrus.WithError(err).Error("CreateComment failed")
		return ResponseItem{}, err
	}

	item, ok := NewResponseItem(*created)
	if !ok {
		return ResponseItem{}, discussion.ErrUnknown
	}
	l.Append(item)
	return item, nil
}

// Flag reports the comment at row. Row 0 (the response) cannot be flagged
// from here.
func (l *List) Flag(ctx context.Context, row int) error {
	if row == 0 {
		return fmt.Errorf("row 0 is the response")
	}
	item, err := l.At(row)
	if err != nil {
		return err
	}

	updated, err := l.api.FlagComment(ctx, item.ResponseID, true)
	if err != nil {
		logrus.WithError(err).WithField("comment_id", item.ResponseID).Error("FlagComment failed")
		return err
	}

	l.mu.Lock()
	for i := range l.items {
		if l.items[i].ResponseID == updated.ID {
			l.items[i].Flagged = updated.AbuseFlagged
		}
	}
	l.mu.Unlock()
	l.notify()
	return nil
}

func (l *List) snapshot() []ResponseItem {
	out := make([]ResponseItem, len(l.items))
	copy(out, l.items)
	return out
}

func (l *List) notify() {
	l.mu.Lock()
	items := l.snapshot()
	callbacks := append([]func([]ResponseItem){}, l.onChange...)
	l.mu.Unlock()

	for _, fn := range callbacks {
		fn(items)
	}
}
