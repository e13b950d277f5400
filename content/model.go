package content

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// DefaultTemplate is the template used when the frontmatter names none.
const DefaultTemplate = "index.html"

// SortBy is the order an Index applies to its pages.
type SortBy int

const (
	SortByTitle  SortBy = iota // ascending by title
	SortByDate                 // newest first, undated pages last
	SortByWeight               // ascending by weight, unweighted pages last
)

func (s SortBy) String() string {
	switch s {
	case SortByTitle:
		return "title"
	case SortByDate:
		return "date"
	case SortByWeight:
		return "weight"
	}
	return fmt.Sprintf("sortby(%d)", int(s))
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *SortBy) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "title":
		*s = SortByTitle
	case "date":
		*s = SortByDate
	case "weight":
		*s = SortByWeight
	default:
		return fmt.Errorf("unknown sort_by %q (want title, date or weight)", text)
	}
	return nil
}

// PageMetadata is the frontmatter of a page.
type PageMetadata struct {
	ID           string     `toml:"id"`             // URL slug, unique within the index
	Title        string     `toml:"title"`          // Title of this page
	DisplayInNav *uint      `toml:"display_in_nav"` // Position in the navigation, hidden if absent
	Weight       *int       `toml:"weight"`         // Sort key for SortByWeight
	Excerpt      *string    `toml:"excerpt"`        // Short summary for article lists
	Date         *time.Time `toml:"date"`           // Publish date
	Template     string     `toml:"template"`       // Template relative to the templates folder
	Filepath     string     `toml:"-"`              // Path relative to the content folder
}

// Page is a rendered content file.
type Page struct {
	Metadata PageMetadata
	HTML     string
}

// Dir returns the output directory of the page relative to the output root.
func (p *Page) Dir() string {
	return path.Join(path.Dir(p.Metadata.Filepath), p.Metadata.ID)
}

// URL returns the site-absolute URL of the page.
func (p *Page) URL() string {
	return dirURL(p.Dir())
}

// IndexMetadata is the frontmatter of an index file.
type IndexMetadata struct {
	Title        string `toml:"title"`
	DisplayInNav *uint  `toml:"display_in_nav"`
	SortBy       SortBy `toml:"sort_by"`
	Template     string `toml:"template"`
	Filepath     string `toml:"-"` // directory relative to the content folder, "" for the root
}

// Index is the page of a content directory together with its ordered child pages.
type Index struct {
	Metadata IndexMetadata
	HTML     string
	Pages    []*Page
}

// Dir returns the output directory of the index relative to the output root.
func (ix *Index) Dir() string {
	return ix.Metadata.Filepath
}

// URL returns the site-absolute URL of the index.
func (ix *Index) URL() string {
	return dirURL(ix.Dir())
}

func dirURL(dir string) string {
	if dir == "" || dir == "." {
		return "/"
	}
	return "/" + dir + "/"
}
