// Package webhook posts captured leads as JSON to the configured collector URL.
package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/gradespark/core/lead"
)

const DefaultTimeout = 5 * time.Second

// StatusError is returned when the collector answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (err *StatusError) Error() string {
	return fmt.Sprintf("webhook returned status %d", err.StatusCode)
}

type Client struct {
	url    string
	client *rest.Client
}

var _ lead.Sender = (*Client)(nil)

func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		url:    url,
		client: &rest.Client{HTTPClient: &http.Client{Timeout: timeout}},
	}
}

func (c *Client) Send(ctx context.Context, l lead.Lead) error {
	body, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(err, "encoding lead")
	}
	req, err := rest.BuildRequestObject(rest.Request{
		Method:  rest.Post,
		BaseURL: c.url,
		Headers: map[string]string{"Content-Type": "application/json"},
		Body:    body,
	})
	if err != nil {
		return errors.Wrap(err, "building lead request")
	}
	hres, err := c.client.MakeRequest(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "posting lead")
	}
	res, err := rest.BuildResponse(hres)
	if err != nil {
		return errors.Wrap(err, "reading webhook response")
	}
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return &StatusError{StatusCode: res.StatusCode, Body: res.Body}
	}
	return nil
}
