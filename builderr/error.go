/*
Package builderr classifies the errors a site build can fail with.

Every error carries the offending path. Errors fall into four categories so that the
command line can tell data defects apart from programming defects:

	Structural   malformed frontmatter, metadata that does not decode, orphaned content
	IO           unreadable or unwritable files and directories
	Shortcode    unparsable shortcodes, missing tags, unreadable includes
	Defect       a concurrent job panicked
*/
package builderr

import (
	"errors"
	"fmt"
)

// Kind identifies a specific failure.
type Kind int

const (
	ConfigRead Kind = iota + 1
	ParseConfig
	MalformedContent
	ParseMetadata
	OrphanedContent
	ReadInput
	ReadDirectory
	WriteFile
	CreateDirectory
	Copy
	ParseShortcode
	IncludeShortcode
	TagNotFound
	Join
)

// Category groups kinds by who has to fix them.
type Category int

const (
	Unknown Category = iota
	Config
	Structural
	IO
	Shortcode
	Defect
)

var kindNames = map[Kind]string{
	ConfigRead:       "config read",
	ParseConfig:      "config parse",
	MalformedContent: "malformed content",
	ParseMetadata:    "metadata parse",
	OrphanedContent:  "orphaned content",
	ReadInput:        "read input",
	ReadDirectory:    "read directory",
	WriteFile:        "write file",
	CreateDirectory:  "create directory",
	Copy:             "copy",
	ParseShortcode:   "shortcode parse",
	IncludeShortcode: "include",
	TagNotFound:      "tag not found",
	Join:             "join",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Category returns the category of the kind.
func (k Kind) Category() Category {
	switch k {
	case ConfigRead, ParseConfig:
		return Config
	case MalformedContent, ParseMetadata, OrphanedContent:
		return Structural
	case ReadInput, ReadDirectory, WriteFile, CreateDirectory, Copy:
		return IO
	case ParseShortcode, IncludeShortcode, TagNotFound:
		return Shortcode
	case Join:
		return Defect
	}
	return Unknown
}

func (c Category) String() string {
	switch c {
	case Config:
		return "config"
	case Structural:
		return "structural"
	case IO:
		return "io"
	case Shortcode:
		return "shortcode"
	case Defect:
		return "defect"
	}
	return "unknown"
}

// Error is a classified build error.
type Error struct {
	Kind   Kind
	Path   string // offending file, directory, template or tag
	Dest   string // destination path for copies
	Detail string // optional extra description
	Err    error  // underlying cause, may be nil
	Stack  string // goroutine stack for Join errors, not part of the message
}

// New returns an error of the given kind for path that wraps err.
func New(kind Kind, path string, err error) *Error {
	return &Error{Kind: kind, Path: path, Err: err}
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case MalformedContent:
		msg = fmt.Sprintf("content from file %s has malformed frontmatter", e.Path)
	case OrphanedContent:
		msg = fmt.Sprintf("content file %s has no index in its directory", e.Path)
	case Copy:
		msg = fmt.Sprintf("copying file %s to %s failed", e.Path, e.Dest)
	case ParseShortcode:
		msg = fmt.Sprintf("could not parse shortcode %q", e.Path)
	case IncludeShortcode:
		msg = fmt.Sprintf("could not include file %s", e.Path)
	case TagNotFound:
		msg = fmt.Sprintf("tag %q does not exist", e.Path)
	case Join:
		msg = fmt.Sprintf("job %s crashed", e.Path)
	default:
		msg = fmt.Sprintf("%s %s failed", e.Kind, e.Path)
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether any error in err's chain is a build error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}

// CategoryOf returns the category of the outermost build error in err's chain.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Category()
	}
	return Unknown
}
