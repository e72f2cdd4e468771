package discussion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/davidleitw/discuss/internal/metrics"
)

const (
	DefaultTimeout = 30 * time.Second

	mergePatchContentType = "application/merge-patch+json"
	requestIDHeader       = "X-Request-ID"
)

type Client interface {
	CreateThread(ctx context.Context, thread NewThread) (*Thread, error)
	CreateComment(ctx context.Context, comment NewComment) (*Comment, error)

	// Only threads and responses can be voted on, not nested comments.
	VoteThread(ctx context.Context, threadID string, voted bool) (*Thread, error)
	VoteResponse(ctx context.Context, responseID string, voted bool) (*Comment, error)

	FlagThread(ctx context.Context, threadID string, flagged bool) (*Thread, error)
	FlagComment(ctx context.Context, commentID string, flagged bool) (*Comment, error)

	// Only a thread can be followed.
	FollowThread(ctx context.Context, threadID string, following bool) (*Thread, error)

	GetThreads(ctx context.Context, courseID string) ([]Thread, error)
	SearchThreads(ctx context.Context, courseID, searchText string) ([]Thread, error)
	GetResponses(ctx context.Context, threadID string, page int) ([]Comment, error)
	GetCourseTopics(ctx context.Context, courseID string) ([]Topic, error)
}

// APIError is returned for non-2xx answers. It matches ErrUnknown with
// errors.Is.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return ErrUnknown
}

type Option func(*resty.Client)

func WithTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(timeout)
	}
}

func WithUserAgent(agent string) Option {
	return func(c *resty.Client) {
		c.SetHeader("User-Agent", agent)
	}
}

type client struct {
	rest *resty.Client
}

func NewClient(baseURL, accessToken string, opts ...Option) Client {
	rest := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(DefaultTimeout).
		SetHeader("Accept", "application/json")
	if accessToken != "" {
		rest.SetAuthToken(accessToken)
	}

	rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if req.Header.Get(requestIDHeader) == "" {
			req.SetHeader(requestIDHeader, uuid.NewString())
		}
		return nil
	})
	rest.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		metrics.ObserveRequest(res.Request.Method, res.StatusCode())
		return nil
	})

	for _, opt := range opts {
		opt(rest)
	}
	return &client{rest: rest}
}

var _ Client = (*client)(nil)

func (c *client) do(ctx context.Context, method, path string, build func(*resty.Request)) ([]byte, error) {
	req := c.rest.R().SetContext(ctx)
	if build != nil {
		build(req)
	}

	res, err := req.Execute(method, path)
	if err != nil {
		logrus.WithError(err).Errorf("%s %s failed", method, path)
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}

	if res.IsError() {
		apiErr := &APIError{Method: method, Path: path, StatusCode: res.StatusCode(), Body: res.String()}
		logrus.WithError(apiErr).WithField("request_id", req.Header.Get(requestIDHeader)).Error("discussion API error")
		return nil, apiErr
	}
	return res.Body(), nil
}

func (c *client) patch(ctx context.Context, path string, body map[string]any) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, func(req *resty.Request) {
		req.SetHeader("Content-Type", mergePatchContentType).SetBody(body)
	})
}

func decoded[T any](data []byte, err error, parse func([]byte) (T, error)) (T, error) {
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := parse(data)
	if err != nil {
		metrics.ObserveDecodeError()
	}
	return v, err
}

func (c *client) CreateThread(ctx context.Context, thread NewThread) (*Thread, error) {
	data, err := c.do(ctx, http.MethodPost, ThreadsPath, func(req *resty.Request) {
		req.SetBody(thread)
	})
	return decoded(data, err, parseSingleThread)
}

func (c *client) CreateComment(ctx context.Context, comment NewComment) (*Comment, error) {
	data, err := c.do(ctx, http.MethodPost, CommentsPath, func(req *resty.Request) {
		req.SetBody(comment)
	})
	return decoded(data, err, parseSingleComment)
}

func (c *client) VoteThread(ctx context.Context, threadID string, voted bool) (*Thread, error) {
	data, err := c.patch(ctx, threadPath(threadID), map[string]any{"voted": voted})
	return decoded(data, err, parseSingleThread)
}

func (c *client) VoteResponse(ctx context.Context, responseID string, voted bool) (*Comment, error) {
	data, err := c.patch(ctx, commentPath(responseID), map[string]any{"voted": voted})
	return decoded(data, err, parseSingleComment)
}

func (c *client) FlagThread(ctx context.Context, threadID string, flagged bool) (*Thread, error) {
	data, err := c.patch(ctx, threadPath(threadID), map[string]any{"abuse_flagged": flagged})
	return decoded(data, err, parseSingleThread)
}

func (c *client) FlagComment(ctx context.Context, commentID string, flagged bool) (*Comment, error) {
	data, err := c.patch(ctx, commentPath(commentID), map[string]any{"abuse_flagged": flagged})
	return decoded(data, err, parseSingleComment)
}

func (c *client) FollowThread(ctx context.Context, threadID string, following bool) (*Thread, error) {
	data, err := c.patch(ctx, threadPath(threadID), map[string]any{"following": following})
	return decoded(data, err, parseSingleThread)
}

func (c *client) GetThreads(ctx context.Context, courseID string) ([]Thread, error) {
	data, err := c.do(ctx, http.MethodGet, ThreadsPath, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"course_id": courseID,
			"following": "true",
		})
	})
	return decoded(data, err, parseThreads)
}

func (c *client) SearchThreads(ctx context.Context, courseID, searchText string) ([]Thread, error) {
	data, err := c.do(ctx, http.MethodGet, ThreadsPath, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"course_id":   courseID,
			"text_search": searchText,
		})
	})
	return decoded(data, err, parseThreads)
}

// GetResponses lists the responses of a thread. Page numbers start at 1; zero
// leaves the page to the server. A page past the last one comes back empty.
func (c *client) GetResponses(ctx context.Context, threadID string, page int) ([]Comment, error) {
	data, err := c.do(ctx, http.MethodGet, CommentsPath, func(req *resty.Request) {
		req.SetQueryParams(map[string]string{
			"thread_id": threadID,
			"page_size": strconv.Itoa(ResponsesPageSize),
		})
		if page > 0 {
			req.SetQueryParam("page", strconv.Itoa(page))
		}
	})
	if page > 1 && isNotFound(err) {
		logrus.WithField("thread_id", threadID).Debugf("page %d not found, end of responses", page)
		return []Comment{}, nil
	}
	return decoded(data, err, parseComments)
}

func isNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

func (c *client) GetCourseTopics(ctx context.Context, courseID string) ([]Topic, error) {
	data, err := c.do(ctx, http.MethodGet, courseTopicsPath(courseID), nil)
	return decoded(data, err, parseCourseTopics)
}
