package tools

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/aio-richtext/pkg/matrixevent"
	"github.com/athapong/aio-richtext/pkg/preview"
	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/util"
)

const formatDescription = "Output format: json (styled runs and blockquote ranges, default), markdown or text"

// RegisterRenderTools registers the conversion tools backed by b.
func RegisterRenderTools(s *server.MCPServer, b *richtext.Builder) {
	htmlTool := mcp.NewTool("render_html",
		mcp.WithDescription("Convert an HTML message body into styled text. Blockquotes are recovered as ranges, layout artifacts are removed and URLs become links."),
		mcp.WithString("html", mcp.Required(), mcp.Description("HTML to convert")),
		mcp.WithString("format", mcp.Description(formatDescription)),
	)
	s.AddTool(htmlTool, util.ErrorGuard(renderHandler(b, "html", richtext.SourceHTML)))

	markdownTool := mcp.NewTool("render_markdown",
		mcp.WithDescription("Convert a Markdown message body into styled text"),
		mcp.WithString("markdown", mcp.Required(), mcp.Description("Markdown to convert")),
		mcp.WithString("format", mcp.Description(formatDescription)),
	)
	s.AddTool(markdownTool, util.ErrorGuard(renderHandler(b, "markdown", richtext.SourceMarkdown)))

	plainTool := mcp.NewTool("render_plain",
		mcp.WithDescription("Convert plain text into styled text, detecting web links and Matrix identifiers"),
		mcp.WithString("text", mcp.Required(), mcp.Description("Plain text to convert")),
		mcp.WithString("format", mcp.Description(formatDescription)),
	)
	s.AddTool(plainTool, util.ErrorGuard(renderHandler(b, "text", richtext.SourcePlain)))

	eventTool := mcp.NewTool("render_event",
		mcp.WithDescription("Render the body of a Matrix m.room.message event. Uses formatted_body when the format is org.matrix.custom.html."),
		mcp.WithString("event", mcp.Required(), mcp.Description("Event JSON, either the whole event or its content object")),
		mcp.WithString("format", mcp.Description(formatDescription)),
	)
	s.AddTool(eventTool, util.ErrorGuard(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		event, ok := arguments["event"].(string)
		if !ok {
			return mcp.NewToolResultError("event must be a string"), nil
		}
		res, err := matrixevent.Render(b, []byte(event))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render event: %v", err)), nil
		}
		return formatResult(res, arguments)
	}))
}

func renderHandler(b *richtext.Builder, arg string, source richtext.Source) func(map[string]interface{}) (*mcp.CallToolResult, error) {
	return func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		input, ok := arguments[arg].(string)
		if !ok {
			return mcp.NewToolResultError(arg + " must be a string"), nil
		}

		res, err := b.Render(source, input)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to render %s: %v", source, err)), nil
		}
		return formatResult(res, arguments)
	}
}

// formatResult writes res in the format named by the "format" argument.
func formatResult(res richtext.Result, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	format, _ := arguments["format"].(string)

	switch format {
	case "", "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	case "markdown":
		md, err := preview.Markdown(res)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(md), nil
	case "text":
		return mcp.NewToolResultText(res.Text.String()), nil
	default:
		return mcp.NewToolResultError("Invalid format. Use 'json', 'markdown' or 'text'"), nil
	}
}
