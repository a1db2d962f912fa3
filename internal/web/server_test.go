// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rejected-theories/internal/metrics"
	"github.com/pdiddy/rejected-theories/internal/theories"
	"github.com/pdiddy/rejected-theories/internal/view"
	"github.com/pdiddy/rejected-theories/internal/wiki"
	"github.com/pdiddy/rejected-theories/internal/wiki/wikitest"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

var fixedNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type harness struct {
	api    *wikitest.Server
	ui     *httptest.Server
	client *http.Client
	srv    *Server
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	api := wikitest.New()
	t.Cleanup(api.Close)

	cfg := types.DefaultConfig()
	cfg.Wikipedia = api.Config()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv, err := NewServer(Options{
		Config:   cfg,
		Fetcher:  theories.New(wiki.NewClient(cfg.Wikipedia), nil, m),
		Registry: reg,
		Metrics:  m,
		Now:      func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	ui := httptest.NewServer(srv.Handler())
	t.Cleanup(ui.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &harness{api: api, ui: ui, client: &http.Client{Jar: jar}, srv: srv}
}

func (h *harness) get(t *testing.T, path string) (int, string) {
	t.Helper()
	resp, err := h.client.Get(h.ui.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func (h *harness) submit(t *testing.T, year string) {
	t.Helper()
	resp, err := h.client.PostForm(h.ui.URL+"/", url.Values{"year": {year}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func (h *harness) state(t *testing.T) view.ViewState {
	t.Helper()
	_, body := h.get(t, "/api/state")
	var raw struct {
		Year    string                `json:"year"`
		Results []types.DisplayRecord `json:"results"`
		Loading bool                  `json:"loading"`
		Error   string                `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	return view.ViewState{Year: raw.Year, Results: raw.Results, Loading: raw.Loading, ErrorMessage: raw.Error}
}

func (h *harness) settle(t *testing.T) view.ViewState {
	t.Helper()
	var s view.ViewState
	require.Eventually(t, func() bool {
		s = h.state(t)
		return !s.Loading
	}, 2*time.Second, 10*time.Millisecond)
	return s
}

func TestIndexRendersForm(t *testing.T) {
	h := newHarness(t)

	status, body := h.get(t, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "Rejected Scientific Theories")
	assert.Contains(t, body, `type="number"`)
	assert.Contains(t, body, `placeholder="Enter Year"`)
	assert.Contains(t, body, ">Fetch</button>")
	assert.NotContains(t, body, `id="loading"`)
	assert.NotContains(t, body, `id="error"`)
	assert.NotContains(t, body, `id="placeholder"`, "no placeholder before a year is entered")
	assert.Contains(t, body, "cubic-bezier(0.12, 0, 0.39, 0)")
}

func TestSubmitRendersCardsInOrder(t *testing.T) {
	h := newHarness(t)
	h.api.Hits = []types.SearchHit{
		{PageID: 1, Title: "Phlogiston theory"},
		{PageID: 2, Title: "Spontaneous generation"},
	}
	h.api.Extracts[1] = "Phlogiston was thought to be released during combustion."
	h.api.Extracts[2] = "Life was thought to arise from non-living matter."
	h.api.Delays[1] = 30 * time.Millisecond

	h.submit(t, "1600")
	s := h.settle(t)
	require.Len(t, s.Results, 2)

	_, body := h.get(t, "/")
	assert.Equal(t, 2, strings.Count(body, `class="card"`))
	first := strings.Index(body, "Phlogiston theory")
	second := strings.Index(body, "Spontaneous generation")
	require.True(t, first >= 0 && second >= 0)
	assert.Less(t, first, second)
	assert.Contains(t, body, `href="https://en.wikipedia.org/?curid=1"`)
	assert.Contains(t, body, `href="https://en.wikipedia.org/?curid=2"`)
	assert.Contains(t, body, `target="_blank"`)
	assert.Contains(t, body, "Phlogiston was thought to be released during combustion.")
	assert.Contains(t, body, `value="1600"`)
	assert.Contains(t, body, "animation-delay: 300ms")
}

func TestCardDelayOverridesBaseDelay(t *testing.T) {
	h := newHarness(t)
	h.api.Hits = []types.SearchHit{
		{PageID: 1, Title: "Phlogiston theory"},
		{PageID: 2, Title: "Spontaneous generation"},
	}

	h.submit(t, "1600")
	h.settle(t)

	_, body := h.get(t, "/")
	assert.Contains(t, body, "fade-up 800ms")
	assert.Contains(t, body, "100ms both")
	// Same delay on every card, not an increasing stagger.
	assert.Equal(t, 2, strings.Count(body, `style="animation-delay: 300ms"`))
	assert.NotContains(t, body, "animation-delay: 600ms")
}

func TestSubmitInvalidYearShowsErrorWithoutNetwork(t *testing.T) {
	for _, year := range []string{"-5", strconv.Itoa(fixedNow.Year() + 10), "", "abc"} {
		t.Run(year, func(t *testing.T) {
			h := newHarness(t)
			h.submit(t, year)

			_, body := h.get(t, "/")
			assert.Contains(t, body, `<p class="status" id="error">Please enter a valid year.</p>`)
			assert.Equal(t, 0, h.api.SearchCalls())
		})
	}
}

func TestSubmitEmptyResult(t *testing.T) {
	h := newHarness(t)
	h.submit(t, "1600")
	s := h.settle(t)
	assert.Equal(t, view.MsgNoResults, s.ErrorMessage)

	_, body := h.get(t, "/")
	assert.Contains(t, body, view.MsgNoResults)
	assert.NotContains(t, body, `id="placeholder"`)
}

func TestSubmitRetrievalFailure(t *testing.T) {
	h := newHarness(t)
	h.api.FailSearch = true
	h.submit(t, "1600")
	s := h.settle(t)
	assert.Equal(t, view.MsgRetrieval, s.ErrorMessage)
	assert.Equal(t, 0, h.api.DetailCalls())
}

func TestLoadingPageRefreshes(t *testing.T) {
	h := newHarness(t)
	h.api.Hits = []types.SearchHit{{PageID: 1, Title: "Caloric theory"}}
	h.api.Delays[1] = 300 * time.Millisecond

	h.submit(t, "1800")
	_, body := h.get(t, "/")
	assert.Contains(t, body, `id="loading"`)
	assert.Contains(t, body, `http-equiv="refresh"`)

	h.settle(t)
	_, body = h.get(t, "/")
	assert.NotContains(t, body, `id="loading"`)
}

func TestPrefillShowsPlaceholder(t *testing.T) {
	h := newHarness(t)
	_, body := h.get(t, "/?year=1600")
	assert.Contains(t, body, `value="1600"`)
	assert.Contains(t, body, `id="placeholder"`)
	assert.Equal(t, 0, h.api.SearchCalls())
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	h.api.Hits = []types.SearchHit{{PageID: 1, Title: "Phlogiston theory"}}
	h.submit(t, "1600")
	h.settle(t)

	other, err := cookiejar.New(nil)
	require.NoError(t, err)
	resp, err := (&http.Client{Jar: other}).Get(h.ui.URL + "/api/state")
	require.NoError(t, err)
	defer resp.Body.Close()

	var s struct {
		Results []types.DisplayRecord `json:"results"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Empty(t, s.Results)
	assert.Equal(t, 2, h.srv.sessions.Len())
}

func TestAPITheories(t *testing.T) {
	h := newHarness(t)
	h.api.Hits = []types.SearchHit{{PageID: 1, Title: "Phlogiston theory"}}
	h.api.Extracts[1] = "extract"

	status, body := h.get(t, "/api/theories?year=1600")
	assert.Equal(t, http.StatusOK, status)

	var resp theoriesResponse
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.Equal(t, 1600, resp.Year)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://en.wikipedia.org/?curid=1", resp.Results[0].Link)
}

func TestAPITheoriesErrors(t *testing.T) {
	h := newHarness(t)

	status, body := h.get(t, "/api/theories?year=-5")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body, view.MsgInvalidYear)

	status, body = h.get(t, "/api/theories?year=1600")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, view.MsgNoResults)
	assert.Contains(t, body, `"results":[]`)

	h.api.Set(func(s *wikitest.Server) { s.FailSearch = true })
	status, body = h.get(t, "/api/theories?year=1600")
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Contains(t, body, view.MsgRetrieval)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)

	status, body := h.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok\n", body)

	h.get(t, "/api/theories?year=-5")
	status, body = h.get(t, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `rejected_theories_fetches_total{outcome="invalid"} 1`)
}

func TestCSSEasing(t *testing.T) {
	assert.Equal(t, "ease-in", string(cssEasing("ease-in")))
	assert.Equal(t, "ease", string(cssEasing("bounce; } body { display:none")))
}
