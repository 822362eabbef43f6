package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/canopy/api"
)

// catalogTools covers discovery, templates and global tokens.
func (s *Server) catalogTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("list_widgets",
				mcp.WithDescription("List available widget types."),
				mcp.WithString("category", mcp.Description("Only list widgets in this category")),
			),
			Handler: s.listWidgets,
		},
		{
			Tool: mcp.NewTool("get_widget_schema",
				mcp.WithDescription("Return the JSON schema of a widget type's settings."),
				mcp.WithString("widget_type", mcp.Required(), mcp.Description("Widget type, e.g. heading")),
			),
			Handler: s.getWidgetSchema,
		},
		{
			Tool: mcp.NewTool("save_as_template",
				mcp.WithDescription("Save a whole document, or one element, as a reusable template."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("title", mcp.Required(), mcp.Description("Template title")),
				mcp.WithString("element_id", mcp.Description("Save only this element (a section template)")),
			),
			Handler: s.saveAsTemplate,
		},
		{
			Tool:    mcp.NewTool("list_templates", mcp.WithDescription("List saved templates, newest first.")),
			Handler: s.listTemplates,
		},
		{
			Tool: mcp.NewTool("apply_template",
				mcp.WithDescription("Insert a copy of a saved template into a document."),
				mcp.WithString("template_id", mcp.Required(), mcp.Description("Id from list_templates")),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("parent_id", mcp.Description(parentIDHelp)),
				mcp.WithNumber("position", mcp.Description(positionHelp)),
			),
			Handler: s.applyTemplate,
		},
		{
			Tool:    mcp.NewTool("get_global_tokens", mcp.WithDescription("Return the site-wide colors and typography.")),
			Handler: s.getGlobalTokens,
		},
		{
			Tool: mcp.NewTool("update_global_colors",
				mcp.WithDescription("Add or replace site-wide colors, matched by _id."),
				mcp.WithArray("colors", mcp.Required(),
					mcp.Description(`Entries of the form {"_id":"primary","title":"Primary","color":"#1a1a1a"}`),
					mcp.Items(map[string]any{"type": "object"})),
			),
			Handler: s.updateGlobalColors,
		},
		{
			Tool: mcp.NewTool("update_global_typography",
				mcp.WithDescription("Add or replace site-wide typography presets, matched by _id."),
				mcp.WithArray("typography", mcp.Required(),
					mcp.Description(`Entries of the form {"_id":"primary","title":"Primary","settings":{"font_family":"Inter"}}`),
					mcp.Items(map[string]any{"type": "object"})),
			),
			Handler: s.updateGlobalTypography,
		},
	}
}

func (s *Server) listWidgets(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return reply(s.ed.ListWidgets(ctx, req.GetString("category", "")))
}

func (s *Server) getWidgetSchema(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requireString(req, "widget_type")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.GetWidgetSchema(ctx, name))
}

func (s *Server) saveAsTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.SaveAsTemplate(ctx, id, req.GetString("title", ""), req.GetString("element_id", "")))
}

func (s *Server) listTemplates(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return reply(s.ed.ListTemplates(ctx))
}

func (s *Server) applyTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tpl, err := requireString(req, "template_id")
	if err != nil {
		return failed(err), nil
	}
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.ApplyTemplate(ctx, tpl, id, req.GetString("parent_id", ""), position(req)))
}

func (s *Server) getGlobalTokens(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return reply(s.ed.GetGlobalTokens(ctx))
}

func (s *Server) updateGlobalColors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var colors []api.Color
	if err := decode(req, "colors", &colors); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.UpdateGlobalColors(ctx, colors))
}

func (s *Server) updateGlobalTypography(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var entries []api.Typography
	if err := decode(req, "typography", &entries); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.UpdateGlobalTypography(ctx, entries))
}
