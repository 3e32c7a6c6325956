package tools

import (
	"atkctl/internal/fixtures"

	"github.com/mark3labs/mcp-go/mcp"
)

func stringItems() mcp.PropertyOption {
	return mcp.Items(map[string]any{"type": "string"})
}

func drushExecTool() mcp.Tool {
	return mcp.NewTool("drush_exec",
		mcp.WithDescription("Run a Drush command against the configured site, locally or through the Pantheon relay"),
		mcp.WithString("command",
			mcp.Required(),
			mcp.Description("Drush command, e.g. 'user:info' or 'cset -y'"),
		),
		mcp.WithArray("args",
			mcp.Description("Positional arguments, already shell-quoted where needed"),
			stringItems(),
		),
		mcp.WithArray("options",
			mcp.Description("Options such as '--format=json'"),
			stringItems(),
		),
	)
}

func userCreateTool() mcp.Tool {
	return mcp.NewTool("user_create",
		mcp.WithDescription("Create a Drupal account and assign roles. A random account is generated when user_name is omitted"),
		mcp.WithString("user_name", mcp.Description("Account name")),
		mcp.WithString("email", mcp.Description("Account e-mail")),
		mcp.WithString("password", mcp.Description("Account password")),
		mcp.WithArray("roles",
			mcp.Description("Role machine names to add"),
			stringItems(),
		),
		mcp.WithArray("options",
			mcp.Description("Extra user:create options"),
			stringItems(),
		),
	)
}

func userDeleteTool() mcp.Tool {
	return mcp.NewTool("user_delete",
		mcp.WithDescription("Cancel an account and delete its content. Give exactly one of uid, email or user_name"),
		mcp.WithNumber("uid", mcp.Description("Account id")),
		mcp.WithString("email", mcp.Description("Account e-mail")),
		mcp.WithString("user_name", mcp.Description("Account name")),
		mcp.WithArray("options",
			mcp.Description("Extra user:cancel options"),
			stringItems(),
		),
	)
}

func userLookupTool() mcp.Tool {
	return mcp.NewTool("user_lookup",
		mcp.WithDescription("Look up accounts by e-mail"),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("Account e-mail"),
		),
	)
}

func entityDeleteTool() mcp.Tool {
	return mcp.NewTool("entity_delete",
		mcp.WithDescription("Delete one entity by type and id"),
		mcp.WithString("entity_type",
			mcp.Required(),
			mcp.Description("Entity type"),
			mcp.Enum(fixtures.EntityNode, fixtures.EntityTerm, fixtures.EntityMedia, fixtures.EntityMenuLink),
		),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Entity id"),
		),
	)
}

func configSetTool() mcp.Tool {
	return mcp.NewTool("config_set",
		mcp.WithDescription("Set a Drupal configuration value with cset"),
		mcp.WithString("object", mcp.Required(), mcp.Description("Configuration object, e.g. system.site")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Key within the object")),
		mcp.WithString("value", mcp.Required(), mcp.Description("New value")),
	)
}

func filePropertiesTool() mcp.Tool {
	return mcp.NewTool("file_properties",
		mcp.WithDescription("Report size and timestamps of a file on the site"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path relative to the Drupal root, or a stream wrapper URI"),
		),
	)
}

func userLoginURLTool() mcp.Tool {
	return mcp.NewTool("user_login_url",
		mcp.WithDescription("Generate a one-time login URL"),
		mcp.WithNumber("uid",
			mcp.Description("Account id (default 1)"),
			mcp.DefaultNumber(1),
		),
	)
}

func sitemapRebuildTool() mcp.Tool {
	return mcp.NewTool("sitemap_rebuild",
		mcp.WithDescription("Regenerate the XML sitemap"),
	)
}

func sessionClearTool() mcp.Tool {
	return mcp.NewTool("session_clear",
		mcp.WithDescription("Remove persisted login sessions. Without user_name every record is removed"),
		mcp.WithString("user_name", mcp.Description("Account whose record to remove")),
	)
}
