// Package confluencetest provides an in-memory Confluence content API for tests.
package confluencetest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Page is a page stored by the fake server
type Page struct {
	ID       string
	Title    string
	ParentID string
	Body     string
	Labels   []string
}

// Call records one request received by the server
type Call struct {
	Method string
	Path   string
}

// Server is an httptest server speaking the subset of /wiki/rest/api/content
// the uploader uses. Titles are unique per space, as in Confluence.
type Server struct {
	*httptest.Server

	Space string

	mu         sync.Mutex
	pages      map[string]*Page
	nextID     int
	calls      []Call
	failCreate map[string]int
	failDelete map[string]int
	failFind   int
}

type createPayload struct {
	Title string `json:"title"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
	Ancestors []struct {
		ID string `json:"id"`
	} `json:"ancestors"`
	Body struct {
		Storage struct {
			Value          string `json:"value"`
			Representation string `json:"representation"`
		} `json:"storage"`
	} `json:"body"`
	Metadata struct {
		Labels []struct {
			Name string `json:"name"`
		} `json:"labels"`
	} `json:"metadata"`
}

// NewServer starts a fake Confluence for space. Call Close when done.
func NewServer(space string) *Server {
	s := &Server{
		Space:      space,
		pages:      make(map[string]*Page),
		nextID:     1000,
		failCreate: make(map[string]int),
		failDelete: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /wiki/rest/api/content", s.handleFind)
	mux.HandleFunc("POST /wiki/rest/api/content", s.handleCreate)
	mux.HandleFunc("DELETE /wiki/rest/api/content/{id}", s.handleDelete)

	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// APIBase is the REST root to use as confluence.Config.BaseURL
func (s *Server) APIBase() string {
	return s.URL + "/wiki/rest/api"
}

// AddPage seeds a page and returns its id
func (s *Server) AddPage(title, parentID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(title, parentID, "", nil)
}

// FailCreate makes creating title respond with status
func (s *Server) FailCreate(title string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCreate[title] = status
}

// FailDelete makes deleting title respond with status
func (s *Server) FailDelete(title string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete[title] = status
}

// FailFind makes every lookup respond with status (0 restores normal behavior)
func (s *Server) FailFind(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failFind = status
}

// PageByTitle returns the stored page with exactly this title
func (s *Server) PageByTitle(title string) (Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.pages {
		if p.Title == title {
			return *p, true
		}
	}
	return Page{}, false
}

// Pages returns all stored pages sorted by title
func (s *Server) Pages() []Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Page, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// Calls returns every request received so far
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CountCalls counts requests with the given method
func (s *Server) CountCalls(method string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method == method {
			n++
		}
	}
	return n
}

// MutatingCalls counts POST and DELETE requests
func (s *Server) MutatingCalls() int {
	return s.CountCalls(http.MethodPost) + s.CountCalls(http.MethodDelete)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path})
		s.mu.Unlock()

		if _, _, ok := r.BasicAuth(); !ok {
			writeError(w, http.StatusUnauthorized, "Basic authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleFind(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failFind != 0 {
		writeError(w, s.failFind, "lookup failed")
		return
	}

	type result struct {
		ID    string `json:"id"`
		Type  string `json:"type"`
		Title string `json:"title"`
	}
	results := []result{}
	if q.Get("spaceKey") == s.Space && q.Get("type") == "page" {
		// Confluence matches titles loosely; clients must filter exact matches.
		for _, p := range s.pages {
			if strings.EqualFold(p.Title, q.Get("title")) {
				results = append(results, result{ID: p.ID, Type: "page", Title: p.Title})
			}
		}
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Title < results[j].Title })

	writeJSON(w, http.StatusOK, map[string]any{
		"results": results,
		"size":    len(results),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload createPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if status, ok := s.failCreate[payload.Title]; ok {
		writeError(w, status, "Could not create page "+payload.Title)
		return
	}
	if payload.Space.Key != s.Space {
		writeError(w, http.StatusNotFound, "No space with key : "+payload.Space.Key)
		return
	}
	if payload.Body.Storage.Representation != "storage" {
		writeError(w, http.StatusBadRequest, "unsupported representation")
		return
	}
	for _, p := range s.pages {
		if p.Title == payload.Title {
			writeError(w, http.StatusBadRequest, "A page with this title already exists")
			return
		}
	}

	parentID := ""
	if len(payload.Ancestors) > 0 {
		parentID = payload.Ancestors[0].ID
	}
	var labels []string
	for _, l := range payload.Metadata.Labels {
		labels = append(labels, l.Name)
	}

	id := s.addLocked(payload.Title, parentID, payload.Body.Storage.Value, labels)
	writeJSON(w, http.StatusOK, map[string]string{
		"id":    id,
		"type":  "page",
		"title": payload.Title,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	s.mu.Lock()
	defer s.mu.Unlock()

	page, ok := s.pages[id]
	if !ok {
		writeError(w, http.StatusNotFound, "No content found with id "+id)
		return
	}
	if status, ok := s.failDelete[page.Title]; ok {
		writeError(w, status, "Could not delete page "+page.Title)
		return
	}

	s.deleteTreeLocked(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addLocked(title, parentID, body string, labels []string) string {
	s.nextID++
	id := strconv.Itoa(s.nextID)
	s.pages[id] = &Page{
		ID:       id,
		Title:    title,
		ParentID: parentID,
		Body:     body,
		Labels:   labels,
	}
	return id
}

func (s *Server) deleteTreeLocked(id string) {
	for childID, p := range s.pages {
		if p.ParentID == id {
			s.deleteTreeLocked(childID)
		}
	}
	delete(s.pages, id)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"statusCode": status,
		"message":    message,
	})
}
