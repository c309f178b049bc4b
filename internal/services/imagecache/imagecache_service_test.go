package imagecache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(filepath.Join(t.TempDir(), "imagecache"), arbor.Logger())
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestPutAndGet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	const prompt = "A watercolor skyline at dusk"
	const dataURL = "data:image/png;base64,iVBORw0KGgo="

	_, ok := svc.Get(ctx, prompt)
	assert.False(t, ok)

	require.NoError(t, svc.Put(ctx, prompt, dataURL))

	got, ok := svc.Get(ctx, prompt)
	require.True(t, ok)
	assert.Equal(t, dataURL, got)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPutOverwrites(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "prompt", "data:image/png;base64,AAAA"))
	require.NoError(t, svc.Put(ctx, "prompt", "data:image/png;base64,BBBB"))

	got, ok := svc.Get(ctx, "prompt")
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,BBBB", got)

	count, err := svc.Count()
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestPutEmptyDataURL(t *testing.T) {
	svc := newTestService(t)
	assert.Error(t, svc.Put(context.Background(), "prompt", ""))
}

func TestDistinctPromptsDistinctEntries(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "first", "data:image/png;base64,AAAA"))
	require.NoError(t, svc.Put(ctx, "second", "data:image/png;base64,BBBB"))

	got, ok := svc.Get(ctx, "first")
	require.True(t, ok)
	assert.Equal(t, "data:image/png;base64,AAAA", got)
}
