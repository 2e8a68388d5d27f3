package mcpserver

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/models"
	"github.com/starford/warband/internal/testutil"
	"github.com/starford/warband/internal/view"
)

func testServer(t *testing.T) (*Server, *testutil.Env) {
	t.Helper()
	env := testutil.NewEnv(t)
	return New(env.Service), env
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" helper, so dispatch to the handlers.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_warbands":
		result, err = srv.listWarbands(ctx, req)
	case "get_warband":
		result, err = srv.getWarband(ctx, req)
	case "warband_rating":
		result, err = srv.warbandRating(ctx, req)
	case "build_document":
		result, err = srv.buildDocument(ctx, req)
	case "resolve_modifier":
		result, err = srv.resolveModifier(ctx, req)
	case "get_snapshot_contract":
		result, err = srv.getSnapshotContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListWarbands(t *testing.T) {
	srv, env := testServer(t)
	env.Seed(t, "corvos", testutil.Corvos)
	env.Seed(t, "outros", `{"name":"Outros","faction":"mercenaries"}`)

	r := callTool(t, srv, "list_warbands", map[string]interface{}{"faction": "undead"})
	var items []models.WarbandSummary
	if err := json.Unmarshal([]byte(resultText(r)), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ID != "corvos" {
		t.Errorf("items = %+v", items)
	}
}

func TestGetWarband(t *testing.T) {
	srv, env := testServer(t)
	env.Seed(t, "corvos", testutil.Corvos)

	r := callTool(t, srv, "get_warband", map[string]interface{}{"id": "corvos"})
	if r.IsError {
		t.Fatalf("error result: %s", resultText(r))
	}
	var v view.View
	if err := json.Unmarshal([]byte(resultText(r)), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Header.Owner != "Ana" || len(v.Units) != 2 {
		t.Errorf("view = %+v", v)
	}
}

func TestGetWarbandMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_warband", map[string]interface{}{"id": "nope"})
	if !r.IsError {
		t.Error("expected error for missing warband")
	}
	if !strings.Contains(resultText(r), "not found") {
		t.Errorf("text = %q", resultText(r))
	}
}

func TestWarbandRating(t *testing.T) {
	srv, env := testServer(t)
	env.Seed(t, "corvos", testutil.Corvos)

	r := callTool(t, srv, "warband_rating", map[string]interface{}{"id": "corvos"})
	if text := resultText(r); text != "22" {
		t.Errorf("rating = %q, want 22", text)
	}
}

func TestBuildDocument(t *testing.T) {
	srv, env := testServer(t)
	env.Seed(t, "corvos", testutil.Corvos)

	r := callTool(t, srv, "build_document", map[string]interface{}{"id": "corvos"})
	text := resultText(r)
	if !strings.Contains(text, `"kind": "equipment"`) {
		t.Errorf("document missing equipment card: %s", text)
	}
}

func TestResolveModifier(t *testing.T) {
	srv, _ := testServer(t)

	r := callTool(t, srv, "resolve_modifier", map[string]interface{}{"name": "AFIADA"})
	var m catalog.Modifier
	if err := json.Unmarshal([]byte(resultText(r)), &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Name != "Afiada" || m.Kind != catalog.KindMelee {
		t.Errorf("modifier = %+v", m)
	}

	r = callTool(t, srv, "resolve_modifier", map[string]interface{}{"name": "Inexistente"})
	if !r.IsError {
		t.Error("expected error for unknown modifier")
	}
}

func TestSnapshotContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_snapshot_contract", nil)
	if resultText(r) != SnapshotFormatContract {
		t.Error("contract text mismatch")
	}

	contents, err := srv.readSnapshotFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != ContractURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
