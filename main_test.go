package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ancientlore/quire/builderr"
	"github.com/ancientlore/quire/config"
	"github.com/ancientlore/quire/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, data := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o644))
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.ContentPath = t.TempDir()
	cfg.OutputPath = filepath.Join(t.TempDir(), "public")
	cfg.Site = config.Site{Title: "Site", Description: "About things"}
	return cfg
}

func TestBuild(t *testing.T) {
	cfg := testConfig(t)
	writeTree(t, cfg.ContentPath, map[string]string{
		"content/index.md":             "+++\ntitle = \"Home\"\n+++\n# Hello",
		"content/posts/index.md":       "+++\ntitle = \"Posts\"\nsort_by = \"weight\"\n+++\n",
		"content/posts/one.md":         "+++\nid = \"one\"\ntitle = \"One\"\nweight = 2\n+++\nFirst",
		"content/posts/two.md":         "+++\nid = \"two\"\ntitle = \"Two\"\nweight = 1\ntemplate = \"post.html\"\n+++\nSecond",
		"templates/index.html":         `<title>{{ title }} - {{ site_title }}</title>{{ content }}`,
		"templates/post.html":          `{% include "partials/meta.html" %}{{ content }}`,
		"templates/partials/meta.html": `<meta name="description" content="{{ site_description }}">`,
		"assets/css/site.css":          "body{}",
	})

	require.NoError(t, build(context.Background(), cfg, slog.Default(), metrics.NoopRecorder{}))

	read := func(name string) string {
		b, err := os.ReadFile(filepath.Join(cfg.OutputPath, filepath.FromSlash(name)))
		require.NoError(t, err)
		return string(b)
	}
	assert.Equal(t, "<title>Home - Site</title><h1>Hello</h1>", read("index.html"))
	assert.Equal(t, "<title>One - Site</title><p>First</p>", read("posts/one/index.html"))
	assert.Equal(t, `<meta name="description" content="About things"><p>Second</p>`, read("posts/two/index.html"))
	assert.Equal(t, "<title>Posts - Site</title>", read("posts/index.html"))
	assert.Equal(t, "body{}", read("css/site.css"))
}

func TestBuildWithoutContent(t *testing.T) {
	cfg := testConfig(t)
	err := build(context.Background(), cfg, slog.Default(), metrics.NoopRecorder{})
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.ReadDirectory))
	assert.Equal(t, exitBuild, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitConfig, exitCode(builderr.New(builderr.ParseConfig, "config.toml", nil)))
	assert.Equal(t, exitBuild, exitCode(builderr.New(builderr.TagNotFound, "nav", nil)))
	assert.Equal(t, exitBuild, exitCode(builderr.New(builderr.MalformedContent, "a.md", nil)))
	assert.Equal(t, exitDefect, exitCode(&builderr.Error{Kind: builderr.Join, Path: "a.md"}))
	assert.Equal(t, exitBuild, exitCode(errors.New("unclassified")))
}
