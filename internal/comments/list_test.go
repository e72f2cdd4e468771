package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleitw/discuss/internal/discussion"
)

type fakeAPI struct {
	created  []discussion.NewComment
	flagged  []string
	flagErr  error
	createAt time.Time
}

func (f *fakeAPI) CreateComment(_ context.Context, c discussion.NewComment) (*discussion.Comment, error) {
	f.created = append(f.created, c)
	parent := c.ParentID
	return &discussion.Comment{
		ID:        "new",
		ThreadID:  c.ThreadID,
		ParentID:  &parent,
		RawBody:   c.RawBody,
		Author:    "me",
		CreatedAt: &f.createAt,
	}, nil
}

func (f *fakeAPI) FlagComment(_ context.Context, id string, flagged bool) (*discussion.Comment, error) {
	if f.flagErr != nil {
		return nil, f.flagErr
	}
	f.flagged = append(f.flagged, id)
	return &discussion.Comment{ID: id, AbuseFlagged: flagged}, nil
}

func comment(id, body, author string, created *time.Time) discussion.Comment {
	return discussion.Comment{ID: id, ThreadID: "th1", RawBody: body, Author: author, CreatedAt: created}
}

func newResponse(t *testing.T) ResponseItem {
	t.Helper()
	now := time.Now()
	return ResponseItem{
		Body:       "response",
		Author:     "staff",
		CreatedAt:  now,
		ResponseID: "r1",
		ThreadID:   "th1",
		Children: []discussion.Comment{
			comment("c1", "first", "alice", &now),
			comment("c2", "", "bob", &now),
			comment("c3", "third", "carol", nil),
			comment("c4", "fourth", "dave", &now),
		},
	}
}

func TestNewListSkipsIncompleteComments(t *testing.T) {
	list := NewList(&fakeAPI{}, newResponse(t))

	items := list.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "c1", items[0].ResponseID)
	assert.Equal(t, "c4", items[1].ResponseID)

	row0, err := list.At(0)
	require.NoError(t, err)
	assert.Equal(t, "r1", row0.ResponseID)

	row2, err := list.At(2)
	require.NoError(t, err)
	assert.Equal(t, "c4", row2.ResponseID)

	_, err = list.At(3)
	assert.Error(t, err)
}

func TestAppendNotifies(t *testing.T) {
	list := NewList(&fakeAPI{}, newResponse(t))

	var seen []ResponseItem
	list.OnChange(func(items []ResponseItem) { seen = items })

	list.Append(ResponseItem{ResponseID: "c9", Body: "late"})
	require.Len(t, seen, 3)
	assert.Equal(t, "c9", seen[2].ResponseID)
	assert.Equal(t, 3, list.Len())
}

func TestPostCreatesCommentUnderResponse(t *testing.T) {
	api := &fakeAPI{createAt: time.Now()}
	list := NewList(api, newResponse(t))

	notified := 0
	list.OnChange(func([]ResponseItem) { notified++ })

	item, err := list.Post(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "new", item.ResponseID)
	assert.Equal(t, []discussion.NewComment{{ThreadID: "th1", ParentID: "r1", RawBody: "hello"}}, api.created)
	assert.Equal(t, 1, notified)
	assert.Equal(t, 3, list.Len())
}

func TestFlagUpdatesRow(t *testing.T) {
	api := &fakeAPI{}
	list := NewList(api, newResponse(t))

	require.NoError(t, list.Flag(context.Background(), 2))
	assert.Equal(t, []string{"c4"}, api.flagged)

	item, _ := list.At(2)
	assert.True(t, item.Flagged)
	first, _ := list.At(1)
	assert.False(t, first.Flagged)

	assert.Error(t, list.Flag(context.Background(), 0))
}

func TestFlagErrorLeavesRowUntouched(t *testing.T) {
	api := &fakeAPI{flagErr: discussion.ErrUnknown}
	list := NewList(api, newResponse(t))

	err := list.Flag(context.Background(), 1)
	assert.True(t, errors.Is(err, discussion.ErrUnknown))
	item, _ := list.At(1)
	assert.False(t, item.Flagged)
}
