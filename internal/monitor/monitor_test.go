package monitor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davidleitw/discuss/internal/db"
	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/rule"
)

type scriptedLister struct {
	mu    sync.Mutex
	polls int
	pages map[int][]discussion.Comment
	// grow adds one more response per poll after the first.
	grow bool
	err  error
	// failPolls lists the poll numbers that fail.
	failPolls map[int]bool
}

func (s *scriptedLister) GetResponses(_ context.Context, threadID string, page int) ([]discussion.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if page == 1 {
		s.polls++
		if s.failPolls[s.polls] {
			return nil, discussion.ErrUnknown
		}
		if s.grow && s.polls > 1 {
			id := fmt.Sprintf("new-%d", s.polls)
			s.pages[1] = append(s.pages[1], discussion.Comment{ID: id, ThreadID: threadID})
		}
	}
	return s.pages[page], nil
}

func responses(prefix string, n int) []discussion.Comment {
	out := make([]discussion.Comment, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, discussion.Comment{ID: fmt.Sprintf("%s-%d", prefix, i), ThreadID: "th1"})
	}
	return out
}

func TestMonitorReportsOnlyNewResponses(t *testing.T) {
	lister := &scriptedLister{pages: map[int][]discussion.Comment{1: responses("old", 2)}, grow: true}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []string
	r, err := rule.NewWatchRule(
		rule.ThreadId("th1"),
		rule.PokeInterval(5*time.Millisecond),
		rule.NewResponseCallback(func(c *discussion.Comment) {
			mu.Lock()
			got = append(got, c.ID)
			if len(got) == 2 {
				cancel()
			}
			mu.Unlock()
		}),
	)
	require.NoError(t, err)

	require.NoError(t, NewMonitor(lister, nil, r).Run(ctx))

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(got), 2)
	assert.Equal(t, "new-2", got[0])
	assert.Equal(t, "new-3", got[1])
}

func TestMonitorWalksPages(t *testing.T) {
	lister := &scriptedLister{pages: map[int][]discussion.Comment{
		1: responses("p1", discussion.ResponsesPageSize),
		2: responses("p2", 3),
	}}
	m := &monitor{client: lister}
	r, err := rule.NewWatchRule(rule.ThreadId("th1"))
	require.NoError(t, err)

	fresh, err := m.poll(context.Background(), r, map[string]bool{})
	require.NoError(t, err)
	assert.Len(t, fresh, discussion.ResponsesPageSize+3)
}

func TestMonitorStopsAfterMaxFailure(t *testing.T) {
	lister := &scriptedLister{err: discussion.ErrUnknown}
	r, err := rule.NewWatchRule(
		rule.ThreadId("th1"),
		rule.PokeInterval(time.Millisecond),
		rule.MaxFailure(3),
	)
	require.NoError(t, err)

	err = NewMonitor(lister, nil, r).Run(context.Background())
	assert.True(t, errors.Is(err, ErrAllRulesStopped))
}

func TestMonitorSyncLocalDb(t *testing.T) {
	store, err := db.Open(filepath.Join(t.TempDir(), "watch.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.SaveResponses([]*db.ResponseRecord{{Id: "old-0", ThreadId: "th1", Author: "a", RawBody: "x"}}))

	lister := &scriptedLister{pages: map[int][]discussion.Comment{1: responses("old", 2)}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []string
	r, err := rule.NewWatchRule(
		rule.ThreadId("th1"),
		rule.PokeInterval(time.Hour),
		rule.SyncLocalDb(true),
		rule.NewResponseCallback(func(c *discussion.Comment) {
			got = append(got, c.ID)
			cancel()
		}),
	)
	require.NoError(t, err)

	// With known records the very first poll already reports what is new.
	require.NoError(t, NewMonitor(lister, store, r).Run(ctx))
	assert.Equal(t, []string{"old-1"}, got)

	seen, err := store.SeenResponseIds("th1")
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"old-0": true, "old-1": true}, seen)
}

func TestMonitorStopsAtMissingPage(t *testing.T) {
	records := make([]string, 0, discussion.ResponsesPageSize)
	for i := 0; i < discussion.ResponsesPageSize; i++ {
		records = append(records, fmt.Sprintf(`{"id": "r%d", "thread_id": "th1"}`, i))
	}
	firstPage := `{"results": [` + strings.Join(records, ",") + `]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(firstPage))
	}))
	defer server.Close()

	m := &monitor{client: discussion.NewClient(server.URL, "tok")}
	r, err := rule.NewWatchRule(rule.ThreadId("th1"))
	require.NoError(t, err)

	fresh, err := m.poll(context.Background(), r, map[string]bool{})
	require.NoError(t, err)
	assert.Len(t, fresh, discussion.ResponsesPageSize)
}

func TestMonitorFailureBudgetResetsOnSuccess(t *testing.T) {
	failPolls := map[int]bool{}
	for i := 1; i <= 20; i += 2 {
		failPolls[i] = true
	}
	lister := &scriptedLister{pages: map[int][]discussion.Comment{1: responses("old", 1)}, failPolls: failPolls}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r, err := rule.NewWatchRule(
		rule.ThreadId("th1"),
		rule.PokeInterval(time.Millisecond),
		rule.MaxFailure(2),
	)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- NewMonitor(lister, nil, r).Run(ctx) }()

	require.Eventually(t, func() bool {
		lister.mu.Lock()
		defer lister.mu.Unlock()
		return lister.polls >= 10
	}, time.Second, time.Millisecond)
	cancel()

	assert.NoError(t, <-done)
}
