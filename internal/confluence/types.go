package confluence

// PageInput describes a page to create.
type PageInput struct {
	Title    string
	Body     string // storage-format markup
	ParentID string
	Labels   []string
}

// searchResponse is the GET /content envelope
type searchResponse struct {
	Results []pageSummary `json:"results"`
	Size    int           `json:"size"`
}

type pageSummary struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// createRequest is the POST /content payload
type createRequest struct {
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Space     spaceRef      `json:"space"`
	Ancestors []ancestorRef `json:"ancestors,omitempty"`
	Body      pageBody      `json:"body"`
	Metadata  *pageMetadata `json:"metadata,omitempty"`
}

type spaceRef struct {
	Key string `json:"key"`
}

type ancestorRef struct {
	ID string `json:"id"`
}

type pageBody struct {
	Storage storageValue `json:"storage"`
}

type storageValue struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

type pageMetadata struct {
	Labels []pageLabel `json:"labels"`
}

type pageLabel struct {
	Prefix string `json:"prefix"`
	Name   string `json:"name"`
}

// errorResponse is the body Confluence returns on failures
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}
