package remoteconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

// StaticSource serves fixed values. Keys that are absent or not objects come
// back as empty dictionaries.
type StaticSource map[string]any

func (s StaticSource) Fetch(_ context.Context, key string) (map[string]any, error) {
	return objectValue(s[key]), nil
}

// HTTPSource reads a flat JSON document of config values from url.
type HTTPSource struct {
	url    string
	client *resty.Client
}

func NewHTTPSource(url string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		url:    url,
		client: resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
	}
}

func (s *HTTPSource) Fetch(ctx context.Context, key string) (map[string]any, error) {
	res, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		logrus.WithError(err).Errorf("GET %s failed", s.url)
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("GET %s: status %d", s.url, res.StatusCode())
	}

	values := map[string]any{}
	if err := json.Unmarshal(res.Body(), &values); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal remote config")
		return nil, err
	}
	return objectValue(values[key]), nil
}

// objectValue accepts either a JSON object or a string holding one, the way
// remote config services commonly deliver JSON parameters.
func objectValue(v any) map[string]any {
	switch value := v.(type) {
	case map[string]any:
		return value
	case string:
		decoded := map[string]any{}
		if err := json.Unmarshal([]byte(value), &decoded); err == nil {
			return decoded
		}
	}
	return map[string]any{}
}
