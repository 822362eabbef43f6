package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/canopy/api"
)

const documentIDHelp = "Id of the target document"

func (s *Server) documentTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("create_document",
				mcp.WithDescription("Create an empty page document and return its id."),
				mcp.WithString("title", mcp.Required(), mcp.Description("Document title")),
				mcp.WithString("status", mcp.Description("Publication status, defaults to draft")),
				mcp.WithString("type", mcp.Description("Document type, defaults to page")),
			),
			Handler: s.createDocument,
		},
		{
			Tool: mcp.NewTool("update_document_settings",
				mcp.WithDescription("Merge page-level settings (background, padding, hide_title, ...) into a document. Top-level keys replace existing ones."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithObject("settings", mcp.Required(), mcp.Description("Settings to merge")),
			),
			Handler: s.updateDocumentSettings,
		},
		{
			Tool: mcp.NewTool("clear_document_content",
				mcp.WithDescription("Remove every element from a document. Page settings are kept."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
			),
			Handler: s.clearDocumentContent,
		},
		{
			Tool: mcp.NewTool("import_structure",
				mcp.WithDescription("Insert an exported element tree into a document. All imported elements receive fresh ids."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithArray("elements", mcp.Required(),
					mcp.Description("Elements as returned by export_document"),
					mcp.Items(map[string]any{"type": "object"})),
				mcp.WithNumber("position", mcp.Description("Root index to insert at; omitted or -1 appends")),
				mcp.WithBoolean("replace", mcp.Description("Replace the whole tree instead of inserting")),
			),
			Handler: s.importStructure,
		},
		{
			Tool: mcp.NewTool("export_document",
				mcp.WithDescription("Return a document with its element tree and page settings. An optional JSONPath selector is evaluated over the element list."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("selector", mcp.Description("JSONPath, e.g. $..[?(@.widgetType == 'heading')].id")),
			),
			Handler: s.exportDocument,
		},
		{
			Tool: mcp.NewTool("get_document_structure",
				mcp.WithDescription("Return a compact depth-first outline (id, kind, widget type, depth, child count) of a document's tree."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
			),
			Handler: s.getDocumentStructure,
		},
		{
			Tool: mcp.NewTool("lint_document",
				mcp.WithDescription("Report layout problems in a document: empty containers, widgets at the page root, "+
					"wrong isInner flags, overflowing rows and deep nesting. Read-only."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
			),
			Handler: s.lintDocument,
		},
		{
			Tool: mcp.NewTool("build_page",
				mcp.WithDescription("Build a page from a declarative structure of containers and widgets in one call. "+
					"Children of a row-direction container share the row equally unless they set width or a flex size override."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithArray("structure", mcp.Required(),
					mcp.Description(`Items of the form {"type":"container"|"widget","widgetType":"...","settings":{...},"children":[...]}`),
					mcp.Items(map[string]any{"type": "object"})),
				mcp.WithBoolean("replace", mcp.Description("Replace the existing tree (default true); false appends")),
			),
			Handler: s.buildPage,
		},
	}
}

func (s *Server) createDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := requireString(req, "title")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.CreateDocument(ctx, title, req.GetString("status", ""), req.GetString("type", "")))
}

func (s *Server) updateDocumentSettings(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	var settings api.Settings
	if err := decode(req, "settings", &settings); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.UpdateDocumentSettings(ctx, id, settings))
}

func (s *Server) clearDocumentContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.ClearDocumentContent(ctx, id))
}

func (s *Server) importStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	var elements []*api.Node
	if err := decode(req, "elements", &elements); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.ImportStructure(ctx, id, elements, position(req), req.GetBool("replace", false)))
}

func (s *Server) exportDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.ExportDocument(ctx, id, req.GetString("selector", "")))
}

func (s *Server) getDocumentStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.GetDocumentStructure(ctx, id))
}

func (s *Server) lintDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.LintDocument(ctx, id))
}

func (s *Server) buildPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	var structure []api.StructureItem
	if err := decode(req, "structure", &structure); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.BuildPage(ctx, id, structure, req.GetBool("replace", true)))
}
