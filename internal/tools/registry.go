package tools

import "github.com/modelcontextprotocol/go-sdk/mcp"

// RegisterAll registers all tools with the MCP server.
// This is called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "lookup_etymology",
		Description: "Trace the origin of a word: summary, timeline of historical forms and a graph of related words as JSON",
	}, NewLookupHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_languages",
		Description: "List the languages offered for lookups",
	}, NewListLanguagesHandler(deps))
}
