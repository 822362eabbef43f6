package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/canopy/internal/schema"
)

func TestSwappable_Swap(t *testing.T) {
	ctx := context.Background()
	s := NewSwappable(Default())

	_, err := s.Controls(ctx, "heading")
	require.NoError(t, err)

	alerts, err := Load(strings.NewReader("widgets:\n  - name: alert\n    title: Alert\n    controls:\n      - name: message\n        type: text\n"))
	require.NoError(t, err)
	s.Swap(alerts)
	assert.Same(t, alerts, s.Current())

	types, err := s.Types(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 1)
	_, err = s.Controls(ctx, "heading")
	assert.True(t, errors.Is(err, schema.ErrUnknownWidget))

	ctrls, err := s.Controls(ctx, "alert")
	require.NoError(t, err)
	assert.Equal(t, "message", ctrls[0].Name)
}

func TestSwappable_ConcurrentReaders(t *testing.T) {
	ctx := context.Background()
	s := NewSwappable(Default())
	next := Default()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, err := s.Controls(ctx, "spacer")
				assert.NoError(t, err)
			}
		}()
	}
	s.Swap(next)
	wg.Wait()
}
