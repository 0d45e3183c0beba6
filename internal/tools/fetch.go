package tools

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/Aman-CERP/agentcore/internal/agenterrors"
	"github.com/Aman-CERP/agentcore/internal/agenttypes"
)

type fetchTool struct{ e *Engine }

func newFetchTool(e *Engine) Tool { return fetchTool{e} }

func (fetchTool) Name() string { return "fetch" }
func (fetchTool) Description() string { return "Fetch a URL over HTTP GET, bounded by a time and response-size cap." }
func (fetchTool) Parameters() map[string]any {
	return objectSchema(map[string]any{
 "url": stringProp("the URL to GET"),
	}, "url")
}

func (t fetchTool) Execute(ctx context.Context, call agenttypes.ToolCall) agenttypes.ToolResult {
	url := argString(call.Arguments, "url", "")

	timeout := t.e.FetchTimeout
	if timeout <= 0 {
 timeout = DefaultEngineConfig().FetchTimeout
	}
	maxBytes := t.e.FetchMaxBytes
	if maxBytes <= 0 {
 maxBytes = DefaultEngineConfig().FetchMaxBytes
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(runCtx, http.MethodGet, url, nil)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeFetchFailed, "invalid URL", err))
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
 if runCtx.Err() != nil {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeTimeout, "request exceeded the fetch timeout"))
 }
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeFetchFailed, "request failed", err))
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, maxBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
 return errResult(call.ID, agenterrors.Wrap(agenterrors.Runtime, agenterrors.CodeFetchFailed, "failed to read response body", err))
	}
	if int64(len(body)) > maxBytes {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeFileTooLarge, "response exceeds the fetch size cap"))
	}
	if resp.StatusCode >= 400 {
 return errResult(call.ID, agenterrors.New(agenterrors.Runtime, agenterrors.CodeFetchFailed, resp.Status).
 WithContext("status_code", strconv.Itoa(resp.StatusCode)))
	}
	return okResult(call.ID, string(body))
}
