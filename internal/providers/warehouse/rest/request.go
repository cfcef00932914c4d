package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/crmarques/cortexops/debugctx"
	"github.com/crmarques/cortexops/warehouse"

	"github.com/google/uuid"
)

const maxResponseBody = 1 << 20

// CreateAgent issues the additive call scoped to the container and
// namespace, embedding the agent name in the payload when absent.
func (g *Gateway) CreateAgent(ctx context.Context, database, schema, name string, body map[string]any) (warehouse.Result, error) {
	payload := body
	if _, ok := body["name"]; !ok {
		payload = make(map[string]any, len(body)+1)
		for key, value := range body {
			payload[key] = value
		}
		payload["name"] = name
	}

	return g.execute(ctx, http.MethodPost, g.agentsPath(database, schema), payload)
}

// UpdateAgent issues the targeted update call; identity comes from the URL,
// so the name is never re-embedded in the payload.
func (g *Gateway) UpdateAgent(ctx context.Context, database, schema, name string, body map[string]any) (warehouse.Result, error) {
	path := g.agentsPath(database, schema) + "/" + url.PathEscape(name)
	return g.execute(ctx, http.MethodPut, path, body)
}

func (g *Gateway) agentsPath(database, schema string) string {
	return "/api/v2/databases/" + url.PathEscape(database) +
		"/schemas/" + url.PathEscape(schema) + "/agents"
}

func (g *Gateway) execute(ctx context.Context, method string, path string, body map[string]any) (warehouse.Result, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, internalError("failed to encode request body", err)
	}

	targetURL := g.baseURL + path
	request, err := http.NewRequestWithContext(ctx, method, targetURL, bytes.NewReader(encoded))
	if err != nil {
		return nil, internalError("failed to create remote request", err)
	}

	request.Header.Set("Authorization", "Bearer "+g.token)
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")
	request.Header.Set("X-Request-Id", uuid.NewString())
	if g.role != "" {
		request.Header.Set("X-Snowflake-Role", g.role)
	}

	debugctx.Printf(ctx, debugctx.GroupNetwork, "%s %s", method, targetURL)

	response, err := g.client.Do(request)
	if err != nil {
		return nil, transportError("remote request failed", err)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(io.LimitReader(response.Body, maxResponseBody))
	if err != nil {
		return nil, transportError("failed to read remote response body", err)
	}

	debugctx.Printf(ctx, debugctx.GroupNetwork, "%s %s -> %d (%d bytes)", method, targetURL, response.StatusCode, len(responseBody))

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		return nil, classifyStatusError(response.StatusCode, responseBody)
	}

	return decodeResult(responseBody), nil
}
