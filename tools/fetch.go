package tools

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/services"
	"github.com/athapong/aio-richtext/util"
)

// Documents larger than this are truncated before conversion.
const maxFetchSize = 5 << 20

func RegisterFetchTool(s *server.MCPServer, b *richtext.Builder) {
	tool := mcp.NewTool("render_url",
		mcp.WithDescription("Fetches a document from a given HTTP/HTTPS URL and converts it into styled text. HTML responses go through the HTML converter, anything else is treated as plain text."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("The complete HTTP/HTTPS URL to fetch content from (e.g., https://example.com)"),
		),
		mcp.WithString("format", mcp.Description(formatDescription)),
	)

	s.AddTool(tool, util.ErrorGuard(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		ctx, cancel := context.WithTimeout(context.Background(), services.DefaultHttpClient().Timeout)
		defer cancel()
		return fetchHandler(ctx, b, services.DefaultHttpClient(), arguments)
	}))
}

func fetchHandler(ctx context.Context, b *richtext.Builder, client *http.Client, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	url, ok := arguments["url"].(string)
	if !ok {
		return mcp.NewToolResultError("url must be a string"), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid URL: %s", err)), nil
	}

	resp, err := client.Do(req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch URL: %s", err)), nil
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mcp.NewToolResultError(fmt.Sprintf("failed to fetch URL: %s", resp.Status)), nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read response body: %s", err)), nil
	}

	source := richtext.SourcePlain
	if mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type")); err != nil || mediaType == "text/html" || mediaType == "application/xhtml+xml" {
		source = richtext.SourceHTML
	}

	res, err := b.Render(source, string(body))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to convert document: %v", err)), nil
	}

	return formatResult(res, arguments)
}
