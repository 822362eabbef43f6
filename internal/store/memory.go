package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/agentic-research/canopy/api"
)

type memDoc struct {
	meta     api.Document
	elements []*api.Node
	settings api.Settings
}

// MemoryStore keeps documents and tokens in process memory. Every read and
// write deep-copies, so callers never share trees with the store.
type MemoryStore struct {
	mu     sync.RWMutex
	docs   map[string]*memDoc
	tokens api.Tokens
	hook   SaveHook
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs: make(map[string]*memDoc),
		tokens: api.Tokens{
			Colors:     []api.Color{},
			Typography: []api.Typography{},
		},
	}
}

// OnSave registers a hook run after every SaveTree.
func (s *MemoryStore) OnSave(h SaveHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hook = h
}

func (s *MemoryStore) CreateDocument(_ context.Context, title, status, kind string) (string, error) {
	if status == "" {
		status = DefaultStatus
	}
	if kind == "" {
		kind = DefaultKind
	}
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[id] = &memDoc{
		meta:     api.Document{ID: id, Title: title, Status: status, Kind: kind},
		elements: []*api.Node{},
		settings: api.Settings{},
	}
	return id, nil
}

func (s *MemoryStore) get(id string) (*memDoc, error) {
	d, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, nil
}

func (s *MemoryStore) Document(_ context.Context, id string) (*api.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	out := d.meta
	out.Elements = api.CloneNodes(d.elements)
	out.Settings = d.settings.Clone()
	return &out, nil
}

func (s *MemoryStore) LoadTree(_ context.Context, id string) ([]*api.Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return api.CloneNodes(d.elements), nil
}

func (s *MemoryStore) SaveTree(ctx context.Context, id string, nodes []*api.Node) error {
	s.mu.Lock()
	d, err := s.get(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	d.elements = api.CloneNodes(nodes)
	d.meta.Revision++
	rev, hook := d.meta.Revision, s.hook
	s.mu.Unlock()

	if hook != nil {
		hook(ctx, id, rev)
	}
	return nil
}

func (s *MemoryStore) LoadSettings(_ context.Context, id string) (api.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, err := s.get(id)
	if err != nil {
		return nil, err
	}
	return d.settings.Clone(), nil
}

func (s *MemoryStore) SaveSettings(_ context.Context, id string, settings api.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, err := s.get(id)
	if err != nil {
		return err
	}
	d.settings = settings.Clone()
	if d.settings == nil {
		d.settings = api.Settings{}
	}
	return nil
}

func (s *MemoryStore) ActiveTokens(context.Context) (*api.Tokens, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTokens(s.tokens), nil
}

func (s *MemoryStore) UpdateTokens(_ context.Context, partial api.Tokens) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := cloneTokens(partial)
	if partial.Colors != nil {
		s.tokens.Colors = next.Colors
	}
	if partial.Typography != nil {
		s.tokens.Typography = next.Typography
	}
	return nil
}

func cloneTokens(t api.Tokens) *api.Tokens {
	out := &api.Tokens{
		Colors:     append([]api.Color{}, t.Colors...),
		Typography: make([]api.Typography, len(t.Typography)),
	}
	for i, ty := range t.Typography {
		ty.Settings = ty.Settings.Clone()
		out.Typography[i] = ty
	}
	return out
}
