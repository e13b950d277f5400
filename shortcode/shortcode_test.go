package shortcode

import (
	"regexp"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/ancientlore/quire/builderr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind(t *testing.T) {
	tests := []struct {
		input      string
		start, end int
	}{
		{"{%%}", 0, 4},
		{"{{}}", 0, 4},
		{"{{}}{%%}", 0, 4},
		{"{%%}{{}}", 0, 4},
		{"abcd{{ 1234 }}asdf", 4, 14},
		{"{}{%%}", 2, 6},
		{"{}hel{lo{% include \"test.html\" %}", 8, 33},
		{"{{ a %}{% b %}", 7, 14},
		{"{% a }}{{ b }}", 7, 14},
	}
	for _, tt := range tests {
		start, end, ok := Find(tt.input)
		if assert.True(t, ok, tt.input) {
			assert.Equal(t, [2]int{tt.start, tt.end}, [2]int{start, end}, tt.input)
		}
	}
}

func TestFindNone(t *testing.T) {
	for _, input := range []string{"", "test{", "plain text", "{ {", "{{ unterminated", "{% nope", "}}{{"} {
		_, _, ok := Find(input)
		assert.False(t, ok, input)
	}
}

func TestParse(t *testing.T) {
	sc, err := Parse(`{% include "folder/head.html" %}`)
	require.NoError(t, err)
	assert.Equal(t, Include{Path: "folder/head.html"}, sc)

	sc, err = Parse("{{   site_title\t}}")
	require.NoError(t, err)
	assert.Equal(t, Tag{Name: "site_title"}, sc)

	sc, err = Parse(`{%include"a.html"%}`)
	require.NoError(t, err)
	assert.Equal(t, Include{Path: "a.html"}, sc)
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"{%%}",
		`{% include %}`,
		`{% include head.html %}`,
		`{% include "head.html %}`,
		`{% include "" %}`,
		`{% extends "base.html" %}`,
		`{% include "a" "b" %}`,
	} {
		_, err := Parse(input)
		require.Error(t, err, input)
		assert.True(t, builderr.Is(err, builderr.ParseShortcode), input)
	}
}

func TestExistingTag(t *testing.T) {
	e := New(nil, nil)
	out, err := e.Expand(Context{"test": "value"}, "{{ test }}")
	require.NoError(t, err)
	assert.Equal(t, "value", out)
}

func TestNonexistentTag(t *testing.T) {
	e := New(nil, nil)
	out, err := e.Expand(Context{}, "{{ test }}")
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.TagNotFound))
	assert.Empty(t, out)

	_, err = e.Expand(Context{}, "abcd{{ 1234 }}asdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"1234"`)
}

func TestLiteralTextUnchanged(t *testing.T) {
	e := New(nil, nil)
	for _, input := range []string{"", "hello", "<p>{ not a shortcode }</p>", "a { b } c {", "%}}"} {
		out, err := e.Expand(nil, input)
		require.NoError(t, err)
		assert.Equal(t, input, out)
	}
}

func TestLiteralTextPreserved(t *testing.T) {
	input := "<html>{{ a }}<head>{% include \"empty.html\" %}</head>{ x }{{b}}tail{"
	templates := fstest.MapFS{"empty.html": {Data: nil}}
	e := New(templates, nil)
	out, err := e.Expand(Context{"a": "", "b": ""}, input)
	require.NoError(t, err)

	stripped := regexp.MustCompile(`\{\{.*?\}\}|\{%.*?%\}`).ReplaceAllString(input, "")
	assert.Equal(t, stripped, out)
}

func TestIncludeNested(t *testing.T) {
	templates := fstest.MapFS{
		"index.html":         {Data: []byte(`<html>{% include "partials/head.html" %}<body>{{ content }}</body></html>`)},
		"partials/head.html": {Data: []byte(`<head><title>{{ title }}</title>{% include "partials/meta.html" %}</head>`)},
		"partials/meta.html": {Data: []byte(`<meta name="description" content="{{ site_description }}">`)},
	}
	e := New(templates, nil)
	ctx := Context{"title": "Hi", "content": "<p>body</p>", "site_description": "desc"}
	out, err := e.Expand(ctx, `{% include "index.html" %}`)
	require.NoError(t, err)
	assert.Equal(t, `<html><head><title>Hi</title><meta name="description" content="desc"></head><body><p>body</p></body></html>`, out)
}

func TestTagValueIsRescanned(t *testing.T) {
	e := New(nil, nil)
	out, err := e.Expand(Context{"outer": "[{{ inner }}]", "inner": "x"}, "a{{ outer }}b")
	require.NoError(t, err)
	assert.Equal(t, "a[x]b", out)
}

func TestReplacementFormsShortcodeWithRest(t *testing.T) {
	e := New(nil, nil)
	out, err := e.Expand(Context{"open": "{{", "x": "done"}, "{{ open }} x }}")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestIncludeErrors(t *testing.T) {
	templates := fstest.MapFS{"a.html": {Data: []byte("a")}}
	e := New(templates, nil)

	_, err := e.Expand(nil, `{% include "missing.html" %}`)
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.IncludeShortcode))

	_, err = e.Expand(nil, `{% include "../secrets.txt" %}`)
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.IncludeShortcode))

	_, err = e.Expand(nil, `ok {% include "a.html" %} {% bogus %}`)
	require.Error(t, err)
	assert.True(t, builderr.Is(err, builderr.ParseShortcode))
}

func TestIncludeCleansPath(t *testing.T) {
	templates := fstest.MapFS{"partials/a.html": {Data: []byte("A")}}
	e := New(templates, nil)
	out, err := e.Expand(nil, `{% include "./partials/../partials/a.html" %}`)
	require.NoError(t, err)
	assert.Equal(t, "A", out)
}

func TestContextClone(t *testing.T) {
	base := Context{"site_title": "Site"}
	c := base.Clone()
	c["title"] = "Page"
	assert.NotContains(t, base, "title")
	assert.Equal(t, "Site", c["site_title"])

	var empty Context
	assert.NotNil(t, empty.Clone())
}

func BenchmarkExpand(b *testing.B) {
	e := New(nil, nil)
	ctx := Context{"a": "alpha", "b": "beta"}
	text := strings.Repeat("<p>{{ a }} and { b } and {{ b }}</p>", 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := e.Expand(ctx, text); err != nil {
			b.Fatal(err)
		}
	}
}
