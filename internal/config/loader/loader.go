// Package loader reads rule set definitions from TOML and YAML files.
//
// A rule file names a set, picks a scanning discipline, pulls in built-in
// rules and other files, and lists its own rules:
//
//	name = "notes"
//	discipline = "independent"
//	builtins = ["escapes", "mdash"]
//	"@include" = ["colors.toml"]
//
//	[[rules]]
//	kind = "pattern"
//	pattern = '-[^\n]+?-'
//	keep_match = true
//	left_trim = 1
//	right_trim = 1
//	tag = "u"
//
// Included rules come before the including file's own rules.
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dshills/inlinemark/internal/markup/rule"
)

// DefaultMaxDepth limits nested @include directives.
const DefaultMaxDepth = 8

// Errors returned by the loader.
var (
	// ErrFileNotFound indicates the rule file doesn't exist.
	ErrFileNotFound = errors.New("rule file not found")

	// ErrUnknownFormat indicates a file extension with no decoder.
	ErrUnknownFormat = errors.New("unknown rule file format")

	// ErrIncludeDepthExceeded indicates too many nested @include directives.
	ErrIncludeDepthExceeded = errors.New("include depth exceeded")

	// ErrUnknownBuiltin indicates a builtins entry with no such rule.
	ErrUnknownBuiltin = errors.New("unknown builtin rule")
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader builds rule sets from files.
type Loader struct {
	fs       FileSystem
	maxDepth int
	logger   *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS sets the file system files are read from.
func WithFS(fsys FileSystem) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.fs = fsys
		}
	}
}

// WithMaxDepth sets the @include nesting limit.
func WithMaxDepth(n int) Option {
	return func(l *Loader) {
		if n > 0 {
			l.maxDepth = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loader reading from the OS file system.
func New(opts ...Option) *Loader {
	l := &Loader{
		fs:       OSFS{},
		maxDepth: DefaultMaxDepth,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the rule file at path, resolves its includes and builds the
// rule set. The set is named after the file when it has no name.
func (l *Loader) Load(path string) (*rule.RuleSet, error) {
	file, err := l.loadWithIncludes(path, l.maxDepth)
	if err != nil {
		return nil, err
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	rs, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", path, err)
	}
	l.logger.Debug("rule set loaded",
		slog.String("path", path),
		slog.String("name", rs.Name),
		slog.Int("rules", rs.Len()),
		slog.String("discipline", rs.Discipline.String()))
	return rs, nil
}

// LoadFile reads and decodes a single rule file without resolving includes.
func (l *Loader) LoadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading rule file %s: %w", path, err)
	}
	return Parse(format, path, data)
}

// loadWithIncludes loads path and merges its includes ahead of its own
// builtins and rules.
func (l *Loader) loadWithIncludes(path string, depth int) (*File, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w at %s", ErrIncludeDepthExceeded, path)
	}
	file, err := l.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if len(file.Include) == 0 {
		return file, nil
	}

	merged := &File{Name: file.Name, Discipline: file.Discipline}
	baseDir := filepath.Dir(path)
	for _, inc := range file.Include {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}
		incFile, err := l.loadWithIncludes(incPath, depth-1)
		if err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
		merged.Builtins = append(merged.Builtins, incFile.Builtins...)
		merged.Rules = append(merged.Rules, incFile.Rules...)
		if merged.Discipline == "" {
			merged.Discipline = incFile.Discipline
		}
	}
	merged.Builtins = append(merged.Builtins, file.Builtins...)
	merged.Rules = append(merged.Rules, file.Rules...)
	return merged, nil
}

// ParseError represents an error while parsing a rule file.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("parse error in %s at line %d, column %d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error in %s at line %d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
