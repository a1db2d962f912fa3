// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package wiki builds MediaWiki action API URLs and decodes the two
// responses the fetch pipeline needs: a full-text search and a plain-text
// intro extract.
package wiki

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultAPIBase  = "https://en.wikipedia.org/w/api.php"
	DefaultPageBase = "https://en.wikipedia.org/"

	// SearchPhrase is the canned search; the year is its only variable.
	SearchPhrase = "outdated or discredited scientific theories before %d"

	// MaxHits caps the number of search hits (srlimit).
	MaxHits = 20

	// ExtractChars is the character budget for each extract (exchars).
	ExtractChars = 1000
)

// Builder turns a year or page id into request URLs. The zero value uses
// the public English Wikipedia endpoints.
type Builder struct {
	APIBase  string
	PageBase string
}

func (b Builder) apiBase() string {
	if b.APIBase == "" {
		return DefaultAPIBase
	}
	return b.APIBase
}

func (b Builder) pageBase() string {
	if b.PageBase == "" {
		return DefaultPageBase
	}
	return b.PageBase
}

// SearchURL returns the search request for year. The year is not checked.
func (b Builder) SearchURL(year int) string {
	params := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {fmt.Sprintf(SearchPhrase, year)},
		"format":   {"json"},
		"origin":   {"*"},
		"srlimit":  {strconv.Itoa(MaxHits)},
	}
	return join(b.apiBase(), params.Encode())
}

// DetailURL returns the extract request for one page. exintro and
// explaintext are flag parameters and carry no value.
func (b Builder) DetailURL(pageID int) string {
	params := url.Values{
		"action":  {"query"},
		"prop":    {"extracts"},
		"exchars": {strconv.Itoa(ExtractChars)},
		"pageids": {strconv.Itoa(pageID)},
		"format":  {"json"},
		"origin":  {"*"},
	}
	return join(b.apiBase(), "exintro&explaintext&"+params.Encode())
}

// PageLink returns the canonical link for a page id.
func (b Builder) PageLink(pageID int) string {
	return join(b.pageBase(), "curid="+strconv.Itoa(pageID))
}

func join(base, rawQuery string) string {
	if strings.Contains(base, "?") {
		return base + "&" + rawQuery
	}
	return base + "?" + rawQuery
}

// BuildSearchQuery is SearchURL on the default endpoints.
func BuildSearchQuery(year int) string { return Builder{}.SearchURL(year) }

// BuildDetailQuery is DetailURL on the default endpoints.
func BuildDetailQuery(pageID int) string { return Builder{}.DetailURL(pageID) }
