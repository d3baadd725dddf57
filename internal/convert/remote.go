package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.docraptor.com"
	defaultTimeout = 120 * time.Second
	maxErrorBody   = 512
)

// OutputKind is the artifact type requested from the conversion service.
type OutputKind string

const (
	OutputPDF OutputKind = "pdf"
	OutputPNG OutputKind = "png"
)

// Converter turns self-contained markup into binary output.
type Converter interface {
	Convert(ctx context.Context, markup string, kind OutputKind) ([]byte, error)
}

// RemoteClient converts markup via the hosted document service.
type RemoteClient struct {
	apiKey     string
	baseURL    string
	testMode   bool
	httpClient *http.Client
}

// RemoteOption customizes a RemoteClient.
type RemoteOption func(*RemoteClient)

// WithBaseURL overrides the service endpoint, mainly for tests.
func WithBaseURL(url string) RemoteOption {
	return func(c *RemoteClient) { c.baseURL = strings.TrimSuffix(url, "/") }
}

// WithTestMode requests watermarked documents that don't bill credits.
func WithTestMode(on bool) RemoteOption {
	return func(c *RemoteClient) { c.testMode = on }
}

// WithTimeout bounds the conversion round-trip.
func WithTimeout(d time.Duration) RemoteOption {
	return func(c *RemoteClient) { c.httpClient.Timeout = d }
}

func NewRemoteClient(apiKey string, opts ...RemoteOption) *RemoteClient {
	c := &RemoteClient{
		apiKey:     strings.TrimSpace(apiKey),
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type docRequest struct {
	Doc docPayload `json:"doc"`
}

type docPayload struct {
	Test            bool   `json:"test"`
	DocumentType    string `json:"document_type"`
	Name            string `json:"name"`
	DocumentContent string `json:"document_content"`
}

// Convert sends markup to the remote service and returns the binary artifact.
// Failures are typed: ErrMissingCredential, ErrTransport or ErrServiceRejected.
func (c *RemoteClient) Convert(ctx context.Context, markup string, kind OutputKind) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrMissingCredential
	}

	payload, err := json.Marshal(docRequest{Doc: docPayload{
		Test:            c.testMode,
		DocumentType:    string(kind),
		Name:            "cv." + string(kind),
		DocumentContent: markup,
	}})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/docs", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.apiKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: status %d", ErrMissingCredential, resp.StatusCode)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("%w: status %d: %s", ErrServiceRejected, resp.StatusCode, truncate(body, maxErrorBody))
	}

	if kind == OutputPDF {
		if err := validatePDF(body); err != nil {
			return nil, fmt.Errorf("%w: invalid pdf: %v", ErrServiceRejected, err)
		}
	}
	return body, nil
}

func truncate(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
