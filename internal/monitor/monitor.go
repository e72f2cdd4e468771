package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/db"
	"github.com/davidleitw/discuss/internal/discussion"
	"github.com/davidleitw/discuss/internal/metrics"
	"github.com/davidleitw/discuss/internal/rule"
)

var ErrAllRulesStopped = errors.New("every watch rule reached its failure limit")

type Monitor interface {
	Run(ctx context.Context) error
}

type responseLister interface {
	GetResponses(ctx context.Context, threadID string, page int) ([]discussion.Comment, error)
}

type monitor struct {
	client responseLister
	db     db.DiscussionDB

	rules []*rule.WatchRule
}

var _ Monitor = &monitor{}

// NewMonitor watches every rule with client. store may be nil when no rule
// syncs to the local db.
func NewMonitor(client responseLister, store db.DiscussionDB, rules ...*rule.WatchRule) Monitor {
	return &monitor{client: client, db: store, rules: rules}
}

func (m *monitor) fetchResponses(ctx context.Context, r *rule.WatchRule) ([]discussion.Comment, error) {
	var all []discussion.Comment
	for page := 1; page <= r.GetMaxPages(); page++ {
		responses, err := m.client.GetResponses(ctx, r.ThreadId, page)
		if err != nil {
			return nil, err
		}
		all = append(all, responses...)
		if len(responses) < discussion.ResponsesPageSize {
			break
		}
	}
	return all, nil
}

func (m *monitor) loadSeen(r *rule.WatchRule) (map[string]bool, bool) {
	if !r.SyncLocalDb || m.db == nil {
		return map[string]bool{}, false
	}
	seen, err := m.db.SeenResponseIds(r.ThreadId)
	if err != nil {
		logrus.WithError(err).Error("SeenResponseIds failed")
		return map[string]bool{}, false
	}
	return seen, len(seen) > 0
}

func (m *monitor) persist(r *rule.WatchRule, responses []discussion.Comment) {
	if !r.SyncLocalDb || m.db == nil || len(responses) == 0 {
		return
	}
	records := make([]*db.ResponseRecord, 0, len(responses))
	for _, response := range responses {
		records = append(records, &db.ResponseRecord{
			Id:        response.ID,
			ThreadId:  r.ThreadId,
			Author:    response.Author,
			RawBody:   response.RawBody,
			CreatedAt: response.CreatedAt,
		})
	}
	if err := m.db.SaveResponses(records); err != nil {
		logrus.WithError(err).Error("SaveResponses failed")
	}
}

// poll returns the responses not seen before and records them as seen.
func (m *monitor) poll(ctx context.Context, r *rule.WatchRule, seen map[string]bool) ([]discussion.Comment, error) {
	responses, err := m.fetchResponses(ctx, r)
	if err != nil {
		return nil, err
	}

	var fresh []discussion.Comment
	for _, response := range responses {
		if seen[response.ID] {
			continue
		}
		seen[response.ID] = true
		fresh = append(fresh, response)
	}
	m.persist(r, fresh)
	return fresh, nil
}

func (m *monitor) activateTrackLoop(ctx context.Context, r *rule.WatchRule) {
	seen, primed := m.loadSeen(r)
	firstTimeFlag := !primed
	maxFailure := r.GetMaxFailure()
	interval := r.GetInterval()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		fresh, err := m.poll(ctx, r, seen)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logrus.WithError(err).WithField("thread_id", r.ThreadId).Error("poll responses failed")
			metrics.ObserveWatchFailure()

			maxFailure--
			if maxFailure == 0 {
				logrus.WithField("thread_id", r.ThreadId).Error("Max failure reached")
				return
			}
		} else {
			maxFailure = r.GetMaxFailure()
			// The first poll only learns what is already there.
			if !firstTimeFlag {
				metrics.ObserveNewResponses(len(fresh))
				for i := range fresh {
					r.NewResponseCallback(&fresh[i])
				}
			}
			firstTimeFlag = false
		}

		select {
		case <-ctx.Done():
			logrus.WithField("thread_id", r.ThreadId).Info("Stop watch loop")
			return
		case <-ticker.C:
		}
	}
}

// Run blocks until ctx is done or every watch loop gave up.
func (m *monitor) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	for _, r := range m.rules {
		wg.Add(1)
		go func(r *rule.WatchRule) {
			defer wg.Done()
			m.activateTrackLoop(ctx, r)
		}(r)
	}
	wg.Wait()

	logrus.Info("Shutting down monitor ...")
	if ctx.Err() != nil {
		return nil
	}
	return ErrAllRulesStopped
}
