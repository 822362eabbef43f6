package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/canopy/api"
)

// shortcut is an add_<widget> tool: friendly arguments mapped onto the
// widget's settings, then handed to add_widget.
type shortcut struct {
	name       string
	widgetType string
	about      string
	args       []mcp.ToolOption
	settings   func(req mcp.CallToolRequest) (api.Settings, error)
}

func (s *Server) shortcutTools() []server.ServerTool {
	var out []server.ServerTool
	for _, sc := range shortcuts() {
		opts := []mcp.ToolOption{
			mcp.WithDescription(sc.about),
			mcp.WithString("document_id", mcp.Required(), mcp.Description(documentIDHelp)),
			mcp.WithString("parent_id", mcp.Required(), mcp.Description("Id of the parent container")),
			mcp.WithNumber("position", mcp.Description(positionHelp)),
		}
		opts = append(opts, sc.args...)
		opts = append(opts, mcp.WithObject("settings", mcp.Description("Extra "+sc.widgetType+" settings; named arguments win")))
		out = append(out, server.ServerTool{
			Tool:    mcp.NewTool(sc.name, opts...),
			Handler: s.shortcutHandler(sc),
		})
	}
	return out
}

func (s *Server) shortcutHandler(sc shortcut) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := requireString(req, "document_id")
		if err != nil {
			return failed(err), nil
		}
		parent, err := requireString(req, "parent_id")
		if err != nil {
			return failed(err), nil
		}
		settings := api.Settings{}
		if err := decode(req, "settings", &settings); err != nil {
			return failed(err), nil
		}
		named, err := sc.settings(req)
		if err != nil {
			return failed(err), nil
		}
		for k, v := range named {
			settings[k] = v
		}
		return reply(s.ed.AddWidget(ctx, id, parent, sc.widgetType, position(req), settings))
	}
}

func shortcuts() []shortcut {
	return []shortcut{
		{
			name: "add_heading", widgetType: "heading",
			about: "Add a heading widget.",
			args: []mcp.ToolOption{
				mcp.WithString("title", mcp.Required(), mcp.Description("Heading text")),
				mcp.WithString("tag", mcp.Description("HTML tag"), mcp.Enum("h1", "h2", "h3", "h4", "h5", "h6", "div", "span", "p")),
				mcp.WithString("align", mcp.Description("left, center, right or justify")),
				mcp.WithString("color", mcp.Description("Text color")),
				mcp.WithString("link", mcp.Description("Link URL")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				title, err := requireString(req, "title")
				if err != nil {
					return nil, err
				}
				out := api.Settings{"title": title}
				setString(out, req, "tag", "header_size")
				setString(out, req, "align", "align")
				setString(out, req, "color", "title_color")
				setLink(out, req, "link")
				return out, nil
			},
		},
		{
			name: "add_text_editor", widgetType: "text-editor",
			about: "Add a rich text widget.",
			args: []mcp.ToolOption{
				mcp.WithString("content", mcp.Required(), mcp.Description("HTML content")),
				mcp.WithString("align", mcp.Description("left, center, right or justify")),
				mcp.WithString("color", mcp.Description("Text color")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				content, err := requireString(req, "content")
				if err != nil {
					return nil, err
				}
				out := api.Settings{"editor": content}
				setString(out, req, "align", "align")
				setString(out, req, "color", "text_color")
				return out, nil
			},
		},
		{
			name: "add_image", widgetType: "image",
			about: "Add an image widget.",
			args: []mcp.ToolOption{
				mcp.WithString("url", mcp.Required(), mcp.Description("Image URL")),
				mcp.WithNumber("media_id", mcp.Description("Media library id")),
				mcp.WithString("caption", mcp.Description("Custom caption")),
				mcp.WithString("link", mcp.Description("Link URL")),
				mcp.WithString("align", mcp.Description("left, center or right")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				url, err := requireString(req, "url")
				if err != nil {
					return nil, err
				}
				image := map[string]any{"url": url}
				if id := req.GetInt("media_id", 0); id > 0 {
					image["id"] = id
				}
				out := api.Settings{"image": image}
				if caption := req.GetString("caption", ""); caption != "" {
					out["caption_source"] = "custom"
					out["caption"] = caption
				}
				if req.GetString("link", "") != "" {
					out["link_to"] = "custom"
					setLink(out, req, "link")
				}
				setString(out, req, "align", "align")
				return out, nil
			},
		},
		{
			name: "add_button", widgetType: "button",
			about: "Add a button widget.",
			args: []mcp.ToolOption{
				mcp.WithString("text", mcp.Required(), mcp.Description("Button label")),
				mcp.WithString("link", mcp.Description("Link URL")),
				mcp.WithString("size", mcp.Description("Button size"), mcp.Enum("xs", "sm", "md", "lg", "xl")),
				mcp.WithString("align", mcp.Description("left, center, right or justify")),
				mcp.WithString("background_color", mcp.Description("Background color")),
				mcp.WithString("text_color", mcp.Description("Text color")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				text, err := requireString(req, "text")
				if err != nil {
					return nil, err
				}
				out := api.Settings{"text": text}
				setLink(out, req, "link")
				setString(out, req, "size", "size")
				setString(out, req, "align", "align")
				setString(out, req, "background_color", "background_color")
				setString(out, req, "text_color", "button_text_color")
				return out, nil
			},
		},
		{
			name: "add_icon", widgetType: "icon",
			about: "Add an icon widget.",
			args: []mcp.ToolOption{
				mcp.WithString("icon", mcp.Required(), mcp.Description("Icon class, e.g. fas fa-star")),
				mcp.WithString("library", mcp.Description("Icon library, default fa-solid")),
				mcp.WithString("link", mcp.Description("Link URL")),
				mcp.WithString("align", mcp.Description("left, center or right")),
				mcp.WithString("color", mcp.Description("Icon color")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				icon, err := requireString(req, "icon")
				if err != nil {
					return nil, err
				}
				out := api.Settings{"selected_icon": map[string]any{
					"value":   icon,
					"library": req.GetString("library", "fa-solid"),
				}}
				setLink(out, req, "link")
				setString(out, req, "align", "align")
				setString(out, req, "color", "primary_color")
				return out, nil
			},
		},
		{
			name: "add_spacer", widgetType: "spacer",
			about: "Add vertical space.",
			args: []mcp.ToolOption{
				mcp.WithNumber("height", mcp.Description("Height in pixels (default 50)")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				return api.Settings{"space": size(req.GetFloat("height", 50), "px")}, nil
			},
		},
		{
			name: "add_divider", widgetType: "divider",
			about: "Add a horizontal divider line.",
			args: []mcp.ToolOption{
				mcp.WithString("style", mcp.Description("Line style"), mcp.Enum("solid", "double", "dotted", "dashed")),
				mcp.WithString("color", mcp.Description("Line color")),
				mcp.WithNumber("weight", mcp.Description("Line weight in pixels")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				out := api.Settings{}
				setString(out, req, "style", "style")
				setString(out, req, "color", "color")
				if w := req.GetFloat("weight", 0); w > 0 {
					out["weight"] = size(w, "px")
				}
				return out, nil
			},
		},
		{
			name: "add_video", widgetType: "video",
			about: "Add an embedded video.",
			args: []mcp.ToolOption{
				mcp.WithString("url", mcp.Required(), mcp.Description("Video URL")),
				mcp.WithString("source", mcp.Description("Video host, default youtube"), mcp.Enum("youtube", "vimeo", "hosted")),
				mcp.WithBoolean("autoplay", mcp.Description("Start playing on load")),
				mcp.WithBoolean("mute", mcp.Description("Start muted")),
			},
			settings: func(req mcp.CallToolRequest) (api.Settings, error) {
				url, err := requireString(req, "url")
				if err != nil {
					return nil, err
				}
				source := req.GetString("source", "youtube")
				out := api.Settings{"video_type": source}
				switch source {
				case "vimeo":
					out["vimeo_url"] = url
				case "hosted":
					out["hosted_url"] = map[string]any{"url": url}
				case "youtube":
					out["youtube_url"] = url
				default:
					return nil, argError("source", "unsupported video source %q", source)
				}
				out["autoplay"] = yesNo(req.GetBool("autoplay", false))
				out["mute"] = yesNo(req.GetBool("mute", false))
				return out, nil
			},
		},
	}
}

func setString(out api.Settings, req mcp.CallToolRequest, arg, key string) {
	if v := req.GetString(arg, ""); v != "" {
		out[key] = v
	}
}

func setLink(out api.Settings, req mcp.CallToolRequest, arg string) {
	if v := req.GetString(arg, ""); v != "" {
		out["link"] = map[string]any{"url": v, "is_external": false, "nofollow": false}
	}
}

func size(v float64, unit string) map[string]any {
	return map[string]any{"size": v, "unit": unit}
}

// yesNo renders a switcher value.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return ""
}
