package editor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/agentic-research/canopy/api"
)

var errNoTokens = errors.New("token store not configured")

// TokensResult counts the entries a token update replaced and appended.
type TokensResult struct {
	Updated int `json:"updated"`
	Added   int `json:"added"`
	Total   int `json:"total"`
}

// GetGlobalTokens returns the active site-wide colors and typography.
func (e *Editor) GetGlobalTokens(ctx context.Context) (*api.Tokens, error) {
	if e.tokens == nil {
		return nil, e.fail("get_global_tokens", "", errNoTokens, "load tokens")
	}
	t, err := e.tokens.ActiveTokens(ctx)
	if err != nil {
		return nil, e.fail("get_global_tokens", "", err, "load tokens")
	}
	return t, nil
}

// UpdateGlobalColors merges colors into the active palette by _id. Entries
// with an unknown _id are appended.
func (e *Editor) UpdateGlobalColors(ctx context.Context, colors []api.Color) (*TokensResult, error) {
	const op = "update_global_colors"
	if len(colors) == 0 {
		return nil, required("colors")
	}
	for i, c := range colors {
		if c.ID == "" {
			return nil, invalid(fmt.Sprintf("colors[%d]._id", i), "colors[%d] has no _id", i)
		}
	}
	current, err := e.GetGlobalTokens(ctx)
	if err != nil {
		return nil, err
	}

	merged, res := mergeByID(current.Colors, colors, func(c api.Color) string { return c.ID })
	if err := e.tokens.UpdateTokens(ctx, api.Tokens{Colors: merged}); err != nil {
		return nil, e.fail(op, "colors", err, "save colors")
	}
	e.done(op, "", logrus.Fields{"updated": res.Updated, "added": res.Added})
	return res, nil
}

// UpdateGlobalTypography merges typography entries by _id. An updated entry
// replaces the stored one wholesale.
func (e *Editor) UpdateGlobalTypography(ctx context.Context, entries []api.Typography) (*TokensResult, error) {
	const op = "update_global_typography"
	if len(entries) == 0 {
		return nil, required("typography")
	}
	for i, t := range entries {
		if t.ID == "" {
			return nil, invalid(fmt.Sprintf("typography[%d]._id", i), "typography[%d] has no _id", i)
		}
	}
	current, err := e.GetGlobalTokens(ctx)
	if err != nil {
		return nil, err
	}

	merged, res := mergeByID(current.Typography, entries, func(t api.Typography) string { return t.ID })
	if err := e.tokens.UpdateTokens(ctx, api.Tokens{Typography: merged}); err != nil {
		return nil, e.fail(op, "typography", err, "save typography")
	}
	e.done(op, "", logrus.Fields{"updated": res.Updated, "added": res.Added})
	return res, nil
}

func mergeByID[T any](current, updates []T, id func(T) string) ([]T, *TokensResult) {
	out := append(make([]T, 0, len(current)+len(updates)), current...)
	index := make(map[string]int, len(out))
	for i, v := range out {
		index[id(v)] = i
	}
	res := &TokensResult{}
	for _, u := range updates {
		if i, ok := index[id(u)]; ok {
			out[i] = u
			res.Updated++
			continue
		}
		index[id(u)] = len(out)
		out = append(out, u)
		res.Added++
	}
	res.Total = len(out)
	return out, res
}
