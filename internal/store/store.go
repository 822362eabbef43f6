// Package store persists documents and global design tokens.
//
// Trees are loaded and saved wholesale: callers read a full tree, mutate an
// in-memory copy and write it back with SaveTree. There is no compare-and-swap;
// two concurrent writers to one document race and the last save wins.
package store

import (
	"context"
	"errors"

	"github.com/agentic-research/canopy/api"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Documents is the document store the editor reads and writes through.
type Documents interface {
	CreateDocument(ctx context.Context, title, status, kind string) (string, error)
	// Document returns metadata, tree and settings of one document.
	Document(ctx context.Context, id string) (*api.Document, error)
	LoadTree(ctx context.Context, id string) ([]*api.Node, error)
	// SaveTree replaces the document's tree and bumps its revision. Derived
	// state (caches, rendered assets) is invalidated here and nowhere else.
	SaveTree(ctx context.Context, id string, nodes []*api.Node) error
	LoadSettings(ctx context.Context, id string) (api.Settings, error)
	SaveSettings(ctx context.Context, id string, settings api.Settings) error
}

// Tokens is the site-wide design token store.
type Tokens interface {
	ActiveTokens(ctx context.Context) (*api.Tokens, error)
	// UpdateTokens replaces each non-nil half of partial.
	UpdateTokens(ctx context.Context, partial api.Tokens) error
}

// SaveHook runs after a tree is saved, with the document's new revision.
type SaveHook func(ctx context.Context, documentID string, revision int64)

// Defaults for new documents.
const (
	DefaultStatus = "draft"
	DefaultKind   = "page"
)
