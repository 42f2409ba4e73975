package knowledge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"ai-hub-be/internal/pkg/logger"
)

// Resolver queries the short-circuit endpoint before any model call. Every
// failure mode (network, non-2xx, malformed body) is treated as "no match"
// so the conversation always has a fallback path to the completion service.
type Resolver struct {
	endpoint string
	client   *http.Client
	logger   logger.ILogger
}

func NewResolver(endpoint string, log logger.ILogger) *Resolver {
	return &Resolver{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: log,
	}
}

type resolveResponse struct {
	Answer *string `json:"answer"`
}

// Resolve returns (answer, true) on a catalog hit, ("", false) otherwise.
// It never returns an error.
func (r *Resolver) Resolve(ctx context.Context, query string) (string, bool) {
	if query == "" {
		return "", false
	}

	reqURL := r.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", false
	}

	res, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("KnowledgeResolver", "Endpoint unreachable, falling through", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", false
	}

	var body resolveResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		r.logger.Warn("KnowledgeResolver", "Malformed endpoint body, falling through", map[string]interface{}{"error": err.Error()})
		return "", false
	}
	if body.Answer == nil || *body.Answer == "" {
		return "", false
	}
	return *body.Answer, true
}
