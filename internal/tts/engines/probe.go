package engines

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Probe checks that the network backends can reach the internet.
type Probe struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewProbe returns a probe issuing HEAD requests to url.
func NewProbe(url string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Probe{URL: url, Timeout: timeout, Client: http.DefaultClient}
}

// Check returns nil when any HTTP response arrives within the timeout.
func (p *Probe) Check(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if err != nil {
		return fmt.Errorf("invalid probe request: %w", err)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("no network connectivity: %w", err)
	}
	_ = resp.Body.Close()
	return nil
}
