// Package templates stores reusable element trees as JSON files on a billy
// filesystem (osfs in production, memfs in tests).
package templates

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/agentic-research/canopy/api"
)

// ErrNotFound is returned for an unknown template id.
var ErrNotFound = errors.New("template not found")

// Template types.
const (
	TypePage    = "page"
	TypeSection = "section"
)

const ext = ".json"

// Library is a directory of templates, one file per template.
type Library struct {
	fs  billy.Filesystem
	now func() time.Time
}

// NewLibrary returns a library rooted at fs.
func NewLibrary(fs billy.Filesystem) *Library {
	return &Library{fs: fs, now: time.Now}
}

// OpenDir returns a library rooted at dir on the host filesystem.
func OpenDir(dir string) (*Library, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return NewLibrary(osfs.New(dir)), nil
}

// Summary is a template listing entry.
type Summary struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	Elements  int       `json:"elements"`
	CreatedAt time.Time `json:"created_at"`
}

// Save stores tpl under a new id and returns the stored template.
func (l *Library) Save(tpl api.Template) (*api.Template, error) {
	tpl.ID = uuid.NewString()
	tpl.CreatedAt = l.now().UTC()
	if tpl.Elements == nil {
		tpl.Elements = []*api.Node{}
	}

	raw, err := json.MarshalIndent(tpl, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode template: %w", err)
	}
	raw = append(raw, '\n')

	if err := l.writeAtomic(tpl.ID+ext, raw); err != nil {
		return nil, err
	}
	return &tpl, nil
}

// writeAtomic writes to a temp file in the library root, then renames it.
func (l *Library) writeAtomic(name string, data []byte) error {
	tmp, err := l.fs.TempFile("", ".canopy-template-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = l.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = l.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("close temp: %w", err)
	}
	if err := l.fs.Rename(tmpName, name); err != nil {
		_ = l.fs.Remove(tmpName) // best-effort cleanup
		return fmt.Errorf("rename temp to %s: %w", name, err)
	}
	return nil
}

// Load reads one template.
func (l *Library) Load(id string) (*api.Template, error) {
	if id == "" || strings.ContainsAny(id, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	f, err := l.fs.Open(id + ext)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("open template %s: %w", id, err)
	}
	defer func() { _ = f.Close() }() // read-only

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", id, err)
	}
	var tpl api.Template
	if err := json.Unmarshal(raw, &tpl); err != nil {
		return nil, fmt.Errorf("decode template %s: %w", id, err)
	}
	return &tpl, nil
}

// List returns every template, newest first.
func (l *Library) List() ([]Summary, error) {
	infos, err := l.fs.ReadDir("/")
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read template dir: %w", err)
	}

	var out []Summary
	for _, info := range infos {
		name := info.Name()
		if info.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		tpl, err := l.Load(strings.TrimSuffix(name, ext))
		if err != nil {
			return nil, err
		}
		out = append(out, Summary{
			ID:        tpl.ID,
			Title:     tpl.Title,
			Type:      tpl.Type,
			Elements:  len(tpl.Elements),
			CreatedAt: tpl.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Title < out[j].Title
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
