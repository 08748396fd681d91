package tools

import (
	"fmt"
	"os"
	"slices"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/athapong/aio-richtext/util"
)

// ToolGroup is a set of tools enabled together through ENABLE_TOOLS.
type ToolGroup struct {
	Name        string
	Description string
	Tools       []string
}

// ToolGroups lists every group the server can register.
var ToolGroups = []ToolGroup{
	{"render", "Convert HTML, Markdown, plain text and Matrix events", []string{"render_html", "render_markdown", "render_plain", "render_event"}},
	{"fetch", "Fetch and convert web documents", []string{"render_url"}},
	{"compare", "Compare rendered HTML documents", []string{"compare_rendered_html"}},
}

// EnabledTools parses a comma separated ENABLE_TOOLS value. An empty set
// means every group is enabled.
func EnabledTools(value string) mapset.Set[string] {
	enabled := mapset.NewSet[string]()
	for _, name := range strings.Split(value, ",") {
		if name = strings.TrimSpace(name); name != "" {
			enabled.Add(name)
		}
	}
	return enabled
}

// IsEnabled reports whether the group name is enabled by the set.
func IsEnabled(enabled mapset.Set[string], name string) bool {
	return enabled.Cardinality() == 0 || enabled.Contains(name)
}

func RegisterToolManagerTool(s *server.MCPServer) {
	tool := mcp.NewTool("tool_manager",
		mcp.WithDescription("Manage MCP tools - list, enable or disable tool groups"),
		mcp.WithString("action", mcp.Required(), mcp.Description("Action to perform: list, enable, disable")),
		mcp.WithString("tool_name", mcp.Description("Tool group to enable/disable")),
	)

	s.AddTool(tool, util.ErrorGuard(toolManagerHandler))
}

func toolManagerHandler(arguments map[string]interface{}) (*mcp.CallToolResult, error) {
	action, ok := arguments["action"].(string)
	if !ok {
		return mcp.NewToolResultError("action must be a string"), nil
	}

	enabled := EnabledTools(os.Getenv("ENABLE_TOOLS"))

	switch action {
	case "list":
		var response strings.Builder
		response.WriteString("Available tools:\n")
		for _, g := range ToolGroups {
			status := "disabled"
			if IsEnabled(enabled, g.Name) {
				status = "enabled"
			}
			fmt.Fprintf(&response, "- %s (%s: %s) [%s]\n", g.Name, g.Description, strings.Join(g.Tools, ", "), status)
		}
		response.WriteString("\nCurrently enabled tools:\n")
		if enabled.Cardinality() == 0 {
			response.WriteString("All tools are enabled (ENABLE_TOOLS is empty)\n")
		} else {
			names := enabled.ToSlice()
			slices.Sort(names)
			for _, name := range names {
				fmt.Fprintf(&response, "- %s\n", name)
			}
		}
		return mcp.NewToolResultText(response.String()), nil

	case "enable", "disable":
		toolName, ok := arguments["tool_name"].(string)
		if !ok || toolName == "" {
			return mcp.NewToolResultError("tool_name is required for enable/disable actions"), nil
		}
		if !slices.ContainsFunc(ToolGroups, func(g ToolGroup) bool { return g.Name == toolName }) {
			return mcp.NewToolResultError(fmt.Sprintf("unknown tool: %s", toolName)), nil
		}

		if action == "enable" {
			enabled.Add(toolName)
		} else {
			if enabled.Cardinality() == 0 {
				for _, g := range ToolGroups {
					enabled.Add(g.Name)
				}
			}
			enabled.Remove(toolName)
			if enabled.Cardinality() == 0 {
				// An empty list would enable everything again.
				enabled.Add("tool_manager")
			}
		}

		names := enabled.ToSlice()
		slices.Sort(names)
		os.Setenv("ENABLE_TOOLS", strings.Join(names, ","))

		return mcp.NewToolResultText(fmt.Sprintf("Successfully %sd tool: %s (takes effect on restart)", action, toolName)), nil

	default:
		return mcp.NewToolResultError("Invalid action. Use 'list', 'enable', or 'disable'"), nil
	}
}
