package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/util"
)

func RegisterCompareTool(s *server.MCPServer, b *richtext.Builder) {
	tool := mcp.NewTool("compare_rendered_html",
		mcp.WithDescription("Render two HTML documents and compare the resulting text, e.g. two revisions of an edited message"),
		mcp.WithString("source", mcp.Required(), mcp.Description("Original HTML")),
		mcp.WithString("target", mcp.Required(), mcp.Description("Changed HTML")),
	)

	s.AddTool(tool, util.ErrorGuard(func(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
		return compareHandler(b, arguments)
	}))
}

func compareHandler(b *richtext.Builder, arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	source, ok := arguments["source"].(string)
	if !ok {
		return mcp.NewToolResultError("source must be a string"), nil
	}
	target, ok := arguments["target"].(string)
	if !ok {
		return mcp.NewToolResultError("target must be a string"), nil
	}

	before, err := b.FromHTML(source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render source: %v", err)), nil
	}
	after, err := b.FromHTML(target)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render target: %v", err)), nil
	}

	var result strings.Builder
	result.WriteString(fmt.Sprintf("Blockquotes: %d -> %d\n\n", len(before.Blockquotes), len(after.Blockquotes)))
	result.WriteString(performSemanticDiff(before.Text.String(), after.Text.String()))

	return mcp.NewToolResultText(result.String()), nil
}

// performSemanticDiff writes a line-prefixed diff of source and target.
func performSemanticDiff(source, target string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(source, target, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var result strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			result.WriteString("- " + strings.ReplaceAll(diff.Text, "\n", "\n- ") + "\n")
		case diffmatchpatch.DiffInsert:
			result.WriteString("+ " + strings.ReplaceAll(diff.Text, "\n", "\n+ ") + "\n")
		case diffmatchpatch.DiffEqual:
			result.WriteString("  " + strings.ReplaceAll(diff.Text, "\n", "\n  ") + "\n")
		}
	}

	return result.String()
}
