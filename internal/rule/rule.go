package rule

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/discussion"
)

const (
	DefaultInterval   = 30 * time.Second
	DefaultMaxFailure = 20
	DefaultMaxPages   = 10
)

type RuleOption func(*WatchRule)

func SyncLocalDb(sync bool) RuleOption {
	return func(o *WatchRule) {
		o.SyncLocalDb = sync
	}
}

func PokeInterval(interval time.Duration) RuleOption {
	return func(o *WatchRule) {
		o.PokeInterval = interval
	}
}

func ThreadId(id string) RuleOption {
	return func(o *WatchRule) {
		o.ThreadId = id
	}
}

func MaxFailure(failure int) RuleOption {
	return func(o *WatchRule) {
		o.MaxFailure = failure
	}
}

func MaxPages(pages int) RuleOption {
	return func(o *WatchRule) {
		o.MaxPages = pages
	}
}

func NewResponseCallback(callback func(*discussion.Comment)) RuleOption {
	return func(o *WatchRule) {
		o.NewResponseCallback = callback
	}
}

func DefaultNewResponseCallback() RuleOption {
	return func(o *WatchRule) {
		o.NewResponseCallback = func(response *discussion.Comment) {
			logrus.WithField("thread_id", response.ThreadID).Infof("New response by %s: %s", response.Author, response.RawBody)
		}
	}
}

// WatchRule describes one thread to poll for new responses.
type WatchRule struct {
	ThreadId string

	SyncLocalDb  bool
	PokeInterval time.Duration
	MaxFailure   int
	MaxPages     int

	NewResponseCallback func(*discussion.Comment)
}

func NewWatchRule(opts ...RuleOption) (*WatchRule, error) {
	rule := &WatchRule{}
	for _, opt := range opts {
		opt(rule)
	}

	if rule.NewResponseCallback == nil {
		DefaultNewResponseCallback()(rule)
	}

	if rule.ThreadId == "" {
		logrus.Errorf("ThreadId is not set")
		return nil, errors.New("thread id is not set")
	}
	return rule, nil
}

func (rule *WatchRule) GetInterval() time.Duration {
	if rule.PokeInterval <= 0 {
		return DefaultInterval
	}
	return rule.PokeInterval
}

func (rule *WatchRule) GetMaxFailure() int {
	if rule.MaxFailure <= 0 {
		return DefaultMaxFailure
	}
	return rule.MaxFailure
}

func (rule *WatchRule) GetMaxPages() int {
	if rule.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return rule.MaxPages
}
