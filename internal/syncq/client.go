package syncq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/palomera/studyd/internal/model"
)

// HTTPClient mirrors checklists to a remote endpoint as JSON. The remote
// is expected to upsert by checklist id.
type HTTPClient struct {
	endpoint string
	client   *http.Client
}

func NewHTTPClient(endpoint string) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

func (c *HTTPClient) PushChecklist(ctx context.Context, cl model.Checklist) error {
	body, err := json.Marshal(cl)
	if err != nil {
		return fmt.Errorf("syncq: marshal checklist %s: %w", cl.ID, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.endpoint+"/checklists/"+cl.ID, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("syncq: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("syncq: push checklist %s: %w", cl.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("syncq: push checklist %s: unexpected status %d", cl.ID, resp.StatusCode)
	}
	return nil
}
