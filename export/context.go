package export

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/ancientlore/quire/content"
	"github.com/ancientlore/quire/shortcode"
)

// Context keys available to templates.
const (
	KeyNav             = "nav"              // links of everything shown in the navigation
	KeyArticles        = "articles"         // summaries of pages with an excerpt and a date
	KeySiteTitle       = "site_title"       // from the site configuration
	KeySiteDescription = "site_description" // from the site configuration
	KeyTitle           = "title"            // title of the index or page being rendered
	KeyContent         = "content"          // rendered Markdown of the index or page
	KeyURL             = "url"              // site-absolute URL of the index or page
	KeyExcerpt         = "excerpt"          // pages only, when set
	KeyDate            = "date"             // pages only, when set, as 2006-01-02
	KeyDateISO8601     = "date_iso8601"     // pages only, when set, as RFC 3339
)

// navEntry is a link with its position in the navigation.
type navEntry struct {
	pos  uint
	link string
}

// navHTML returns the links of every index and page with a navigation position,
// ordered by position. Equal positions keep discovery order.
func navHTML(indices []*content.Index) string {
	var entries []navEntry
	add := func(pos *uint, url, title string) {
		if pos != nil {
			entries = append(entries, navEntry{pos: *pos, link: navLink(url, title)})
		}
	}
	for _, ix := range indices {
		add(ix.Metadata.DisplayInNav, ix.URL(), ix.Metadata.Title)
		for _, p := range ix.Pages {
			add(p.Metadata.DisplayInNav, p.URL(), p.Metadata.Title)
		}
	}
	slices.SortStableFunc(entries, func(a, b navEntry) int {
		switch {
		case a.pos < b.pos:
			return -1
		case a.pos > b.pos:
			return 1
		}
		return 0
	})
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.link)
	}
	return sb.String()
}

func navLink(url, title string) string {
	return fmt.Sprintf("<a href=\"%s\">%s</a>\n", html.EscapeString(url), html.EscapeString(title))
}

// articlesHTML returns a summary of every page that has both an excerpt and a date,
// in index discovery order and then page order.
func articlesHTML(indices []*content.Index) string {
	var sb strings.Builder
	for _, ix := range indices {
		for _, p := range ix.Pages {
			m := p.Metadata
			if m.Excerpt == nil || m.Date == nil {
				continue
			}
			fmt.Fprintf(&sb, "<article><h2><a href=\"%s\">%s</a></h2><time datetime=\"%s\">%s</time><p>%s</p></article>\n",
				html.EscapeString(p.URL()),
				html.EscapeString(m.Title),
				m.Date.Format(time.RFC3339),
				m.Date.Format(time.DateOnly),
				html.EscapeString(*m.Excerpt))
		}
	}
	return sb.String()
}

// globalContext returns the keys shared by every rendered file.
func globalContext(indices []*content.Index, siteTitle, siteDescription string) shortcode.Context {
	return shortcode.Context{
		KeyNav:             navHTML(indices),
		KeyArticles:        articlesHTML(indices),
		KeySiteTitle:       siteTitle,
		KeySiteDescription: siteDescription,
	}
}

// indexContext returns a copy of global with the keys of ix.
func indexContext(global shortcode.Context, ix *content.Index) shortcode.Context {
	ctx := global.Clone()
	ctx[KeyTitle] = ix.Metadata.Title
	ctx[KeyContent] = ix.HTML
	ctx[KeyURL] = ix.URL()
	return ctx
}

// pageContext returns a copy of global with the keys of p.
func pageContext(global shortcode.Context, p *content.Page) shortcode.Context {
	ctx := global.Clone()
	ctx[KeyTitle] = p.Metadata.Title
	ctx[KeyContent] = p.HTML
	ctx[KeyURL] = p.URL()
	if p.Metadata.Excerpt != nil {
		ctx[KeyExcerpt] = *p.Metadata.Excerpt
	}
	if d := p.Metadata.Date; d != nil {
		ctx[KeyDate] = d.Format(time.DateOnly)
		ctx[KeyDateISO8601] = d.Format(time.RFC3339)
	}
	return ctx
}
