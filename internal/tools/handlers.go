package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"atkctl/internal/drush"
	"atkctl/internal/fixtures"
	"atkctl/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func failure(action string, err error) (*mcp.CallToolResult, error) {
	logging.Warn("MCP", "%s: %v", action, err)
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", action, err)), nil
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]any, name string) (int, bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, true, fmt.Errorf("%s must be a whole number", name)
		}
		return int(n), true, nil
	case int:
		return n, true, nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, true, fmt.Errorf("%s must be a number", name)
		}
		return i, true, nil
	}
	return 0, true, fmt.Errorf("%s must be a number, got %T", name, v)
}

func (s *Server) handleDrushExec(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	command, err := request.RequireString("command")
	if err != nil {
		return mcp.NewToolResultError("command is required"), nil
	}

	spec, err := drush.SpecFromAny(command, args["args"], args["options"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
	}

	res, err := s.drush.Execute(ctx, spec)
	if err != nil {
		return failure("Drush failed", err)
	}

	data, err := json.MarshalIndent(map[string]any{
		"command":     res.Command,
		"stdout":      res.Stdout,
		"stderr":      res.Stderr,
		"exit_code":   res.ExitCode,
		"duration_ms": res.Duration.Milliseconds(),
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format result: %v", err)), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(data))},
		IsError: !res.Success(),
	}, nil
}

func (s *Server) handleUserCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	roles, err := drush.StringList("roles", args["roles"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
	}
	options, err := drush.StringList("options", args["options"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
	}

	account := fixtures.RandomUser()
	if name := request.GetString("user_name", ""); name != "" {
		account.UserName = name
		account.UserEmail = fixtures.EmailForName(name)
	}
	if email := request.GetString("email", ""); email != "" {
		account.UserEmail = email
	}
	if password := request.GetString("password", ""); password != "" {
		account.UserPassword = password
	}

	uid, err := s.helper.CreateUserWithUserObject(ctx, account, roles, nil, options)
	if err != nil {
		return failure("Failed to create user", err)
	}
	return jsonResult(map[string]any{
		"uid":       uid,
		"user_name": account.UserName,
		"email":     account.UserEmail,
		"password":  account.UserPassword,
		"roles":     append(roles, account.UserRoles...),
	})
}

func (s *Server) handleUserDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	options, err := drush.StringList("options", args["options"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
	}
	uid, hasUID, err := intArg(args, "uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	email := request.GetString("email", "")
	userName := request.GetString("user_name", "")

	given := 0
	for _, set := range []bool{hasUID, email != "", userName != ""} {
		if set {
			given++
		}
	}
	if given != 1 {
		return mcp.NewToolResultError("give exactly one of uid, email or user_name"), nil
	}

	var out string
	switch {
	case hasUID:
		out, err = s.helper.DeleteUserWithUid(ctx, uid, options)
	case email != "":
		out, err = s.helper.DeleteUserWithEmail(ctx, email, options)
	default:
		out, err = s.helper.DeleteUserWithUserName(ctx, userName, nil, options)
	}
	if err != nil {
		return failure("Failed to delete user", err)
	}
	return mcp.NewToolResultText(strings.TrimSpace(out)), nil
}

func (s *Server) handleUserLookup(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, err := request.RequireString("email")
	if err != nil {
		return mcp.NewToolResultError("email is required"), nil
	}
	users, err := s.helper.UserInfoByEmail(ctx, email)
	if err != nil {
		return failure("Failed to look up user", err)
	}
	return jsonResult(map[string]any{
		"users": users,
		"total": len(users),
	})
}

func (s *Server) handleEntityDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityType, err := request.RequireString("entity_type")
	if err != nil {
		return mcp.NewToolResultError("entity_type is required"), nil
	}
	switch entityType {
	case fixtures.EntityNode, fixtures.EntityTerm, fixtures.EntityMedia, fixtures.EntityMenuLink:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unsupported entity_type %q", entityType)), nil
	}
	id, ok, err := intArg(request.GetArguments(), "id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok || id <= 0 {
		return mcp.NewToolResultError("id must be a positive number"), nil
	}

	out, err := s.helper.DeleteEntity(ctx, entityType, id)
	if err != nil {
		return failure("Failed to delete entity", err)
	}
	return mcp.NewToolResultText(strings.TrimSpace(out)), nil
}

func (s *Server) handleConfigSet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	object, err := request.RequireString("object")
	if err != nil {
		return mcp.NewToolResultError("object is required"), nil
	}
	key, err := request.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError("key is required"), nil
	}
	value, err := request.RequireString("value")
	if err != nil {
		return mcp.NewToolResultError("value is required"), nil
	}

	out, err := s.helper.SetDrupalConfiguration(ctx, object, key, value)
	if err != nil {
		return failure("Failed to set configuration", err)
	}
	return mcp.NewToolResultText(strings.TrimSpace(out)), nil
}

func (s *Server) handleFileProperties(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError("path is required"), nil
	}
	props, err := s.helper.FileProperties(ctx, path)
	if err != nil {
		return failure("Failed to read file properties", err)
	}
	return jsonResult(props)
}

func (s *Server) handleUserLoginURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, _, err := intArg(request.GetArguments(), "uid")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	url, err := s.helper.LoginURL(ctx, uid)
	if err != nil {
		return failure("Failed to generate login URL", err)
	}
	return mcp.NewToolResultText(url), nil
}

func (s *Server) handleSitemapRebuild(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.helper.RebuildSitemap(ctx)
	if err != nil {
		return failure("Failed to rebuild sitemap", err)
	}
	return mcp.NewToolResultText(strings.TrimSpace(out)), nil
}

var errNoStore = errors.New("no session store configured")

func (s *Server) handleSessionClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.store == nil {
		return failure("Failed to clear sessions", errNoStore)
	}
	if name := request.GetString("user_name", ""); name != "" {
		if err := s.store.Delete(s.store.HandleFor(name)); err != nil {
			return failure("Failed to clear session", err)
		}
		return mcp.NewToolResultText("Removed session for " + name), nil
	}
	if err := s.store.Clear(); err != nil {
		return failure("Failed to clear sessions", err)
	}
	return mcp.NewToolResultText("Removed all sessions"), nil
}
