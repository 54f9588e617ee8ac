package lookup_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
)

const fixtureYAML = `
profiles: [u1, u2]
apps: [crm]
task_types:
  - id: bug
    attributes:
      - name: severity
        type: string
        required: true
        values: [low, high]
      - name: estimate
        type: number
  - id: chore
`

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := lookup.NewMemory().PutProfiles("u1").PutApps("crm")

	t.Run("hit returns a copy", func(t *testing.T) {
		ref, err := m.CheckExists(ctx, lookup.KindProfile, "u1")
		require.NoError(t, err)
		assert.Equal(t, lookup.KindProfile, ref.Kind)
		assert.Equal(t, "u1", ref.ID)
		ref.ID = "changed"

		again, err := m.CheckExists(ctx, lookup.KindProfile, "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", again.ID)
	})

	t.Run("miss is not found", func(t *testing.T) {
		_, err := m.CheckExists(ctx, lookup.KindProfile, "nobody")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("kinds are separate namespaces", func(t *testing.T) {
		_, err := m.CheckExists(ctx, lookup.KindApp, "u1")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("injected failure", func(t *testing.T) {
		boom := fmt.Errorf("backend down")
		m.Fail(lookup.KindApp, "crm", boom)
		_, err := m.CheckExists(ctx, lookup.KindApp, "crm")
		assert.ErrorIs(t, err, boom)

		m.Fail(lookup.KindApp, "crm", nil)
		_, err = m.CheckExists(ctx, lookup.KindApp, "crm")
		assert.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		m.PutProfiles("temp")
		m.Delete(lookup.KindProfile, "temp")
		_, err := m.CheckExists(ctx, lookup.KindProfile, "temp")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("delay honors cancellation", func(t *testing.T) {
		m.Delay(lookup.KindProfile, "u1", time.Hour)
		defer m.Delay(lookup.KindProfile, "u1", 0)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := m.CheckExists(cctx, lookup.KindProfile, "u1")
		assert.True(t, errors.IsCanceled(err))
	})
}

func TestDecode(t *testing.T) {
	ctx := context.Background()
	m, err := lookup.Decode([]byte(fixtureYAML))
	require.NoError(t, err)
	assert.Equal(t, 5, m.Len())

	ref, err := m.CheckExists(ctx, lookup.KindTaskType, "bug")
	require.NoError(t, err)
	require.NotNil(t, ref.Schema)
	spec, ok := ref.Schema.Lookup("severity")
	require.True(t, ok)
	assert.Equal(t, lookup.AttributeString, spec.Type)
	assert.True(t, spec.Required)
	assert.Equal(t, []string{"low", "high"}, spec.Values)

	_, ok = ref.Schema.Lookup("missing")
	assert.False(t, ok)

	t.Run("unknown attribute type", func(t *testing.T) {
		_, err := lookup.Decode([]byte("task_types:\n  - id: x\n    attributes:\n      - name: a\n        type: blob\n"))
		var pe *errors.ParseError
		assert.ErrorAs(t, err, &pe)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := lookup.Decode([]byte("profiles: [u1"))
		assert.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(fixtureYAML), 0o600))

	m, err := lookup.LoadFile(path)
	require.NoError(t, err)
	_, err = m.CheckExists(context.Background(), lookup.KindApp, "crm")
	assert.NoError(t, err)

	_, err = lookup.LoadFile(filepath.Join(dir, "missing.yaml"))
	var ioErr *errors.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestMemoize(t *testing.T) {
	ctx := context.Background()

	t.Run("repeated checks reach the backend once", func(t *testing.T) {
		m := lookup.NewMemory().PutProfiles("u1")
		gw := lookup.Memoize(m)
		for n := 0; n < 5; n++ {
			_, err := gw.CheckExists(ctx, lookup.KindProfile, "u1")
			require.NoError(t, err)
		}
		for n := 0; n < 3; n++ {
			_, err := gw.CheckExists(ctx, lookup.KindProfile, "ghost")
			assert.True(t, errors.IsNotFound(err))
		}
		assert.Equal(t, int64(2), m.Calls())
	})

	t.Run("concurrent checks share one call", func(t *testing.T) {
		m := lookup.NewMemory().PutProfiles("u1")
		m.Delay(lookup.KindProfile, "u1", 20*time.Millisecond)
		gw := lookup.Memoize(m)

		var wg sync.WaitGroup
		for n := 0; n < 10; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := gw.CheckExists(ctx, lookup.KindProfile, "u1")
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Equal(t, int64(1), m.Calls())
	})

	t.Run("cancellations are not cached", func(t *testing.T) {
		m := lookup.NewMemory().PutProfiles("u1")
		gw := lookup.Memoize(m)

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := gw.CheckExists(cctx, lookup.KindProfile, "u1")
		require.Error(t, err)

		_, err = gw.CheckExists(ctx, lookup.KindProfile, "u1")
		assert.NoError(t, err)
	})

	t.Run("wrapping twice is a no-op", func(t *testing.T) {
		gw := lookup.Memoize(lookup.NewMemory())
		assert.Same(t, gw, lookup.Memoize(gw))
	})
}

func TestTraceAndObserve(t *testing.T) {
	ctx := context.Background()
	m := lookup.NewMemory().PutApps("crm")
	m.Fail(lookup.KindApp, "broken", fmt.Errorf("timeout talking to apps"))

	var got []lookup.Outcome
	gw := lookup.Observe(lookup.Trace(m), lookup.ObserverFunc(func(kind lookup.Kind, outcome lookup.Outcome, _ time.Duration) {
		assert.Equal(t, lookup.KindApp, kind)
		got = append(got, outcome)
	}))

	_, err := gw.CheckExists(ctx, lookup.KindApp, "crm")
	require.NoError(t, err)
	_, err = gw.CheckExists(ctx, lookup.KindApp, "nope")
	require.Error(t, err)
	_, err = gw.CheckExists(ctx, lookup.KindApp, "broken")
	require.Error(t, err)

	assert.Equal(t, []lookup.Outcome{lookup.OutcomeFound, lookup.OutcomeNotFound, lookup.OutcomeError}, got)
	assert.Equal(t, lookup.Gateway(m), lookup.Observe(m, nil))
}

func TestSequence(t *testing.T) {
	ids := lookup.Sequence("c-")
	assert.Equal(t, "c-1", ids.NewID())
	assert.Equal(t, "c-2", ids.NewID())

	other := lookup.Sequence("c-")
	assert.Equal(t, "c-1", other.NewID())

	a, b := lookup.UUIDs.NewID(), lookup.UUIDs.NewID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestTimeout(t *testing.T) {
	mem := lookup.NewMemory().PutApps("slow", "fast")
	mem.Delay(lookup.KindApp, "slow", time.Second)
	gw := lookup.Timeout(mem, 20*time.Millisecond)

	_, err := gw.CheckExists(context.Background(), lookup.KindApp, "fast")
	assert.NoError(t, err)

	_, err = gw.CheckExists(context.Background(), lookup.KindApp, "slow")
	assert.True(t, errors.IsTimeout(err), "got %v", err)
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gw.CheckExists(ctx, lookup.KindApp, "slow")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, errors.ErrTimeout)

	assert.Same(t, mem, lookup.Timeout(mem, 0))
}
