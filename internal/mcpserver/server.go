// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes warband tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/warband/internal/apperr"
	"github.com/starford/warband/internal/warbandservice"
)

// ContractURI is the resource URI of the snapshot format contract.
const ContractURI = "warband://snapshot-format"

// Server wraps the MCP server with warband tools.
type Server struct {
	mcp *server.MCPServer
	svc *warbandservice.Service
}

// New creates a new MCP server with all warband tools registered.
func New(svc *warbandservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Warband",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_warbands",
		mcp.WithDescription("List stored warbands with name, faction, owner and rating."),
		mcp.WithString("faction", mcp.Description("Optional faction code filter (e.g. undead)")),
		mcp.WithString("sort", mcp.Description("Sort field: name, rating or updated")),
	), s.listWarbands)

	s.mcp.AddTool(mcp.NewTool("get_warband",
		mcp.WithDescription("Return the derived view of a warband: header, active units in roster "+
			"order, resolved attributes, equipment and abilities."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Warband id (snapshot file name without .json)")),
	), s.getWarband)

	s.mcp.AddTool(mcp.NewTool("warband_rating",
		mcp.WithDescription("Compute the rating of a warband: 5 per active unit plus the "+
			"experience and quality of every active unit."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Warband id")),
	), s.warbandRating)

	s.mcp.AddTool(mcp.NewTool("build_document",
		mcp.WithDescription("Build the printable document tree of a warband (unit cards, "+
			"equipment cards and detail pages) as JSON."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Warband id")),
	), s.buildDocument)

	s.mcp.AddTool(mcp.NewTool("resolve_modifier",
		mcp.WithDescription("Look up an equipment modifier in the catalog by name (case-insensitive)."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Modifier name, e.g. Afiada")),
	), s.resolveModifier)

	s.mcp.AddTool(mcp.NewTool("get_snapshot_contract",
		mcp.WithDescription("Returns the raw warband snapshot format contract. "+
			"Call this before writing or interpreting snapshot documents."),
	), s.getSnapshotContract)

	// Resource: snapshot format contract.
	s.mcp.AddResource(
		mcp.NewResource(ContractURI, "Snapshot Format Contract",
			mcp.WithResourceDescription("Raw warband snapshot format accepted by the sheet engine."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSnapshotFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func lookupError(id string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id))
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listWarbands(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	faction, sort := "", ""
	if f, err := req.RequireString("faction"); err == nil {
		faction = f
	}
	if v, err := req.RequireString("sort"); err == nil {
		sort = v
	}
	items, _, err := s.svc.ListWarbands(ctx, 0, 0, faction, sort)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(items), nil
}

func (s *Server) getWarband(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.GetView(ctx, id)
	if err != nil {
		return lookupError(id, err), nil
	}
	return jsonResult(v), nil
}

func (s *Server) warbandRating(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v, err := s.svc.GetView(ctx, id)
	if err != nil {
		return lookupError(id, err), nil
	}
	return mcp.NewToolResultText(strconv.FormatFloat(v.Header.Rating, 'f', -1, 64)), nil
}

func (s *Server) buildDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, id)
	if err != nil {
		return lookupError(id, err), nil
	}
	return jsonResult(doc), nil
}

func (s *Server) resolveModifier(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, ok := s.svc.ResolveModifier(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown modifier: %s", name)), nil
	}
	return jsonResult(m), nil
}

func (s *Server) getSnapshotContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SnapshotFormatContract), nil
}

func (s *Server) readSnapshotFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContractURI,
			MIMEType: "text/markdown",
			Text:     SnapshotFormatContract,
		},
	}, nil
}
