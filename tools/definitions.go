package tools

// AllTools contains all tool specifications for the Confluence upload server.
// Tool descriptions follow a structured format for LLM tool selection:
// - USE WHEN: Natural language triggers
// - NOT FOR: Disambiguation from similar tools
// - PARAMETERS: Key arguments with defaults
// - RETURNS: What the tool returns
var AllTools = []ToolSpec{
	// ==========================================================================
	// WRITE TOOLS
	// ==========================================================================
	{
		Name:     "confluence_upload_directory",
		Method:   "UploadDirectory",
		Title:    "Upload Directory",
		Category: "write",
		Description: `Upload a local directory of Markdown files as a Confluence page tree.

USE WHEN: User says "publish these docs to Confluence", "upload this folder", "mirror docs/ into the PM space".

NOT FOR: Converting a single snippet (use confluence_convert_markdown).

PARAMETERS:
- dir: Local directory (required)
- parent_id: Numeric id of the parent page (required)
- root_title: Root page title (default: directory name, title-cased)

RETURNS: Root page id and created/skipped/failed counts. Pages whose titles already exist are skipped, so re-running is safe.`,
		ReadOnly:    false,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   true,
	},
	{
		Name:     "confluence_delete_page_tree",
		Method:   "DeletePageTree",
		Title:    "Delete Page Tree",
		Category: "write",
		Description: `Delete a Confluence page by exact title, together with all of its descendants.

USE WHEN: User says "remove the Artefacts tree", "delete the uploaded docs".

PARAMETERS:
- title: Exact page title (required)

RETURNS: Outcome (deleted, not_found, simulated, failed) and the page id.

WARNING: Descendants are removed by Confluence in the same call.`,
		ReadOnly:    false,
		Destructive: true,
		Idempotent:  true,
		OpenWorld:   true,
	},

	// ==========================================================================
	// READ TOOLS
	// ==========================================================================
	{
		Name:     "confluence_find_page",
		Method:   "FindPage",
		Title:    "Find Page",
		Category: "read",
		Description: `Look up a page id by exact title in the configured space.

USE WHEN: User asks "does page X exist", "what is the id of X", or needs a parent_id for an upload.

PARAMETERS:
- title: Exact page title (required)

RETURNS: Whether the page exists and its id.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  true,
	},

	// ==========================================================================
	// CONVERT TOOLS
	// ==========================================================================
	{
		Name:     "confluence_convert_markdown",
		Method:   "ConvertMarkdown",
		Title:    "Convert Markdown",
		Category: "convert",
		Description: `Convert Markdown to Confluence storage format without uploading.

USE WHEN: User wants to preview how a document will render, or needs storage markup for another tool.

PARAMETERS:
- markdown: Markdown text, optionally with front matter (required)

RETURNS: Storage-format XHTML and labels taken from front matter tags.`,
		ReadOnly:   true,
		Idempotent: true,
		OpenWorld:  false,
	},
}
