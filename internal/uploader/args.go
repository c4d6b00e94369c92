package uploader

// UploadDirectoryArgs contains parameters for uploading a directory tree
type UploadDirectoryArgs struct {
	Dir       string `json:"dir" jsonschema:"Local directory of Markdown files to upload"`
	ParentID  string `json:"parent_id" jsonschema:"Numeric id of the Confluence page to create the root page under"`
	RootTitle string `json:"root_title,omitempty" jsonschema:"Title of the root page (default: directory name, title-cased)"`
}

// UploadDirectoryResult is the result of a directory upload
type UploadDirectoryResult struct {
	RootTitle string `json:"root_title"`
	RootID    string `json:"root_id,omitempty"`
	Created   int    `json:"created"`
	Skipped   int    `json:"skipped"`
	Failed    int    `json:"failed"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

// DeletePageTreeArgs contains parameters for deleting a page tree
type DeletePageTreeArgs struct {
	Title string `json:"title" jsonschema:"Exact title of the page to delete together with its descendants"`
}

// DeletePageTreeResult is the result of a page tree delete
type DeletePageTreeResult struct {
	Title    string `json:"title"`
	Outcome  string `json:"outcome"` // deleted, not_found, simulated, failed
	PageID   string `json:"page_id,omitempty"`
	Error    string `json:"error,omitempty"`
	Deleted  int    `json:"deleted"`
	NotFound int    `json:"not_found"`
	Failed   int    `json:"failed"`
}

// FindPageArgs contains parameters for an exact title lookup
type FindPageArgs struct {
	Title string `json:"title" jsonschema:"Exact page title to look up in the configured space"`
}

// FindPageResult is the result of a title lookup
type FindPageResult struct {
	Title  string `json:"title"`
	Found  bool   `json:"found"`
	PageID string `json:"page_id,omitempty"`
}

// ConvertMarkdownArgs contains Markdown to convert
type ConvertMarkdownArgs struct {
	Markdown string `json:"markdown" jsonschema:"Markdown text, optionally starting with YAML or TOML front matter"`
}

// ConvertMarkdownResult is the storage-format rendering of a document
type ConvertMarkdownResult struct {
	Storage string   `json:"storage"`
	Labels  []string `json:"labels,omitempty"`
}
