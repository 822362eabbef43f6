package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/canopy/api"
)

const (
	elementIDHelp = "Id of the target element"
	parentIDHelp  = "Id of the parent container; omit for the page root"
	positionHelp  = "Index among the parent's children; omitted or -1 appends"
)

func (s *Server) elementTools() []server.ServerTool {
	return []server.ServerTool{
		{
			Tool: mcp.NewTool("add_container",
				mcp.WithDescription("Add a flex container to a document, at the root or inside another container."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("parent_id", mcp.Description(parentIDHelp)),
				mcp.WithNumber("position", mcp.Description(positionHelp)),
				mcp.WithObject("settings", mcp.Description("Container settings, e.g. flex_direction, gap, padding")),
			),
			Handler: s.addContainer,
		},
		{
			Tool: mcp.NewTool("add_section",
				mcp.WithDescription("Add a legacy section with equal-width columns at the page root."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithNumber("columns", mcp.Description("Number of columns, 1 to 10 (default 1)")),
				mcp.WithNumber("position", mcp.Description(positionHelp)),
				mcp.WithObject("settings", mcp.Description("Section settings")),
			),
			Handler: s.addSection,
		},
		{
			Tool: mcp.NewTool("move_element",
				mcp.WithDescription("Move an element, with everything inside it, to another parent or position."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("element_id", mcp.Required(), mcp.Description(elementIDHelp)),
				mcp.WithString("parent_id", mcp.Description(parentIDHelp)),
				mcp.WithNumber("position", mcp.Description(positionHelp)),
			),
			Handler: s.moveElement,
		},
		{
			Tool: mcp.NewTool("remove_element",
				mcp.WithDescription("Delete an element and everything inside it."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("element_id", mcp.Required(), mcp.Description(elementIDHelp)),
			),
			Handler: s.removeElement,
		},
		{
			Tool: mcp.NewTool("duplicate_element",
				mcp.WithDescription("Copy an element, with fresh ids, directly after the original."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("element_id", mcp.Required(), mcp.Description(elementIDHelp)),
			),
			Handler: s.duplicateElement,
		},
		{
			Tool: mcp.NewTool("add_widget",
				mcp.WithDescription("Add a widget to a container. Settings keys must exist in the widget's schema (see get_widget_schema)."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("parent_id", mcp.Required(), mcp.Description("Id of the parent container")),
				mcp.WithString("widget_type", mcp.Required(), mcp.Description("Widget type, e.g. heading")),
				mcp.WithNumber("position", mcp.Description(positionHelp)),
				mcp.WithObject("settings", mcp.Description("Widget settings")),
			),
			Handler: s.addWidget,
		},
		{
			Tool: mcp.NewTool("update_widget",
				mcp.WithDescription("Merge settings into a widget. Top-level keys replace existing ones wholesale."),
				mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
				mcp.WithString("element_id", mcp.Required(), mcp.Description("Id of the widget")),
				mcp.WithObject("settings", mcp.Required(), mcp.Description("Settings to merge")),
			),
			Handler: s.updateWidget,
		},
	}
}

func (s *Server) addContainer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	var settings api.Settings
	if err := decode(req, "settings", &settings); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.AddContainer(ctx, id, req.GetString("parent_id", ""), position(req), settings))
}

func (s *Server) addSection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	var settings api.Settings
	if err := decode(req, "settings", &settings); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.AddSection(ctx, id, req.GetInt("columns", 1), position(req), settings))
}

func (s *Server) moveElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	el, err := requireString(req, "element_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.MoveElement(ctx, id, el, req.GetString("parent_id", ""), position(req)))
}

func (s *Server) removeElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	el, err := requireString(req, "element_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.RemoveElement(ctx, id, el))
}

func (s *Server) duplicateElement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	el, err := requireString(req, "element_id")
	if err != nil {
		return failed(err), nil
	}
	return reply(s.ed.DuplicateElement(ctx, id, el))
}

func (s *Server) addWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	var settings api.Settings
	if err := decode(req, "settings", &settings); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.AddWidget(ctx, id, req.GetString("parent_id", ""), req.GetString("widget_type", ""), position(req), settings))
}

func (s *Server) updateWidget(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := requireString(req, "document_id")
	if err != nil {
		return failed(err), nil
	}
	el, err := requireString(req, "element_id")
	if err != nil {
		return failed(err), nil
	}
	var settings api.Settings
	if err := decode(req, "settings", &settings); err != nil {
		return failed(err), nil
	}
	return reply(s.ed.UpdateWidget(ctx, id, el, settings))
}
