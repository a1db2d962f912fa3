package main

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/rejected-theories/internal/view"
	"github.com/pdiddy/rejected-theories/internal/wiki/wikitest"
	"github.com/pdiddy/rejected-theories/pkg/types"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func fakeAPI(t *testing.T) *wikitest.Server {
	t.Helper()
	srv := wikitest.New()
	t.Cleanup(srv.Close)
	t.Setenv("REJECTED_THEORIES_WIKIPEDIA_API_BASE", srv.APIBase())
	t.Setenv("REJECTED_THEORIES_LOG_LEVEL", "error")
	return srv
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("REJECTED_THEORIES_SERVER_ADDR", ":9999")
	t.Setenv("REJECTED_THEORIES_WIKIPEDIA_TIMEOUT", "3s")
	initConfig()

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Wikipedia.Timeout)
	assert.Equal(t, types.DefaultConfig().Animation, cfg.Animation)
}

func TestFetchJSON(t *testing.T) {
	srv := fakeAPI(t)
	srv.Hits = []types.SearchHit{
		{PageID: 1, Title: "Phlogiston theory"},
		{PageID: 2, Title: "Spontaneous generation"},
	}
	srv.Extracts[1] = "one"

	stdout, _, err := execute(t, "fetch", "--year", "1600", "--format", "json")
	require.NoError(t, err)

	var got []types.DisplayRecord
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Phlogiston theory", got[0].Title)
	assert.Equal(t, "one", got[0].Content)
	assert.Equal(t, "Content not available", got[1].Content)
	assert.Equal(t, "https://en.wikipedia.org/?curid=2", got[1].Link)
}

func TestFetchCards(t *testing.T) {
	srv := fakeAPI(t)
	srv.Hits = []types.SearchHit{{PageID: 1, Title: "Phlogiston theory"}}
	srv.Extracts[1] = "one"

	stdout, _, err := execute(t, "fetch", "--year", "1600", "--format", "cards")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Phlogiston theory")
	assert.Contains(t, stdout, "1 theories")
}

func TestFetchInvalidYear(t *testing.T) {
	srv := fakeAPI(t)

	for _, year := range []string{"-5", strconv.Itoa(time.Now().Year() + 10)} {
		_, stderr, err := execute(t, "fetch", "--year="+year, "--format", "cards")
		assert.ErrorIs(t, err, view.ErrInvalidYear)
		assert.Equal(t, view.MsgInvalidYear+"\n", stderr)
	}
	assert.Equal(t, 0, srv.SearchCalls())
}

func TestFetchEmptyAndFailure(t *testing.T) {
	srv := fakeAPI(t)

	stdout, stderr, err := execute(t, "fetch", "--year", "1600", "--format", "cards")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, view.MsgNoResults)

	srv.Set(func(s *wikitest.Server) { s.FailSearch = true })
	_, stderr, err = execute(t, "fetch", "--year", "1600", "--format", "json")
	assert.Error(t, err)
	assert.Equal(t, 1, strings.Count(stderr, view.MsgRetrieval))
	assert.NotContains(t, stderr, "Error:")
}

func TestFetchRejectsUnknownFormat(t *testing.T) {
	fakeAPI(t)
	_, stderr, err := execute(t, "fetch", "--year", "1600", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
	assert.Contains(t, stderr, "Error: unknown format")
}

func TestVersion(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "rejected-theories dev\n", stdout)
}
