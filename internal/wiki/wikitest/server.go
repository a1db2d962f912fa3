// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wikitest provides an in-process fake of the MediaWiki action API
// for tests.
package wikitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pdiddy/rejected-theories/pkg/types"
)

// Server answers list=search and prop=extracts requests from canned data.
type Server struct {
	*httptest.Server

	mu sync.Mutex
	// Hits is returned for every search request.
	Hits []types.SearchHit
	// Extracts maps page id to extract text. Ids without an entry are
	// answered with a page that has no extract.
	Extracts map[int]string
	// FailSearch makes search requests answer HTTP 500.
	FailSearch bool
	// FailPages makes extract requests for these ids answer HTTP 500.
	FailPages map[int]bool
	// Delays holds a per-page latency applied before answering extracts.
	Delays map[int]time.Duration

	searches atomic.Int32
	details  atomic.Int32
	lastQ    atomic.Value
}

// New starts a fake server. Callers must Close it.
func New() *Server {
	s := &Server{
		Extracts:  map[int]string{},
		FailPages: map[int]bool{},
		Delays:    map[int]time.Duration{},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// APIBase is the URL to use as the API endpoint.
func (s *Server) APIBase() string { return s.URL + "/w/api.php" }

// Config returns a WikipediaConfig pointed at this server.
func (s *Server) Config() types.WikipediaConfig {
	return types.WikipediaConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "wikitest"},
		APIBase:    s.APIBase(),
		PageBase:   "https://en.wikipedia.org/",
	}
}

// SearchCalls reports how many search requests arrived.
func (s *Server) SearchCalls() int { return int(s.searches.Load()) }

// DetailCalls reports how many extract requests arrived.
func (s *Server) DetailCalls() int { return int(s.details.Load()) }

// LastSearch returns the srsearch value of the most recent search.
func (s *Server) LastSearch() string {
	v, _ := s.lastQ.Load().(string)
	return v
}

// Set updates the canned data under the server lock.
func (s *Server) Set(fn func(s *Server)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("list") == "search":
		s.handleSearch(w, q.Get("srsearch"))
	case q.Get("prop") == "extracts":
		id, _ := strconv.Atoi(q.Get("pageids"))
		s.handleExtract(w, id)
	default:
		http.Error(w, "unsupported", http.StatusBadRequest)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, srsearch string) {
	s.searches.Add(1)
	s.lastQ.Store(srsearch)

	s.mu.Lock()
	fail := s.FailSearch
	hits := append([]types.SearchHit(nil), s.Hits...)
	s.mu.Unlock()

	if fail {
		http.Error(w, "search unavailable", http.StatusInternalServerError)
		return
	}

	type hit struct {
		NS     int    `json:"ns"`
		Title  string `json:"title"`
		PageID int    `json:"pageid"`
	}
	out := struct {
		Query struct {
			Search []hit `json:"search"`
		} `json:"query"`
	}{}
	out.Query.Search = []hit{}
	for _, h := range hits {
		out.Query.Search = append(out.Query.Search, hit{Title: h.Title, PageID: h.PageID})
	}
	writeJSON(w, out)
}

func (s *Server) handleExtract(w http.ResponseWriter, id int) {
	s.details.Add(1)

	s.mu.Lock()
	fail := s.FailPages[id]
	delay := s.Delays[id]
	extract, ok := s.Extracts[id]
	s.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if fail {
		http.Error(w, "extract unavailable", http.StatusInternalServerError)
		return
	}

	page := map[string]any{"pageid": id, "ns": 0}
	if ok {
		page["extract"] = extract
	}
	writeJSON(w, map[string]any{
		"batchcomplete": "",
		"query": map[string]any{
			"pages": map[string]any{strconv.Itoa(id): page},
		},
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
