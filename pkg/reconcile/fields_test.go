package reconcile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/reconcile"
)

func TestScalar(t *testing.T) {
	assert.Equal(t, "keep", reconcile.Scalar("keep", ""))
	assert.Equal(t, "new", reconcile.Scalar("keep", "new"))
	assert.Equal(t, 3, reconcile.Scalar(3, 0))
}

func TestPointer(t *testing.T) {
	one, two := 1, 2

	got := reconcile.Pointer(&one, nil)
	assert.Equal(t, 1, *got)
	assert.NotSame(t, &one, got)

	got = reconcile.Pointer(&one, &two)
	assert.Equal(t, 2, *got)
	assert.NotSame(t, &two, got)

	assert.Nil(t, reconcile.Pointer[int](nil, nil))
}

func TestStrings(t *testing.T) {
	target := []string{"a", "b"}
	got := reconcile.Strings(target, nil)
	assert.Equal(t, target, got)
	got[0] = "z"
	assert.Equal(t, "a", target[0])

	assert.Equal(t, []string{"c"}, reconcile.Strings(target, []string{"c"}))
	assert.Equal(t, []string{}, reconcile.Strings(target, []string{}))
}

func TestNested(t *testing.T) {
	ids := lookup.Sequence("n")

	assert.Nil(t, reconcile.Nested[item](nil, nil, ids))

	target := &item{ID: "1", Label: "a"}
	kept := reconcile.Nested(target, nil, ids)
	assert.Equal(t, target, kept)
	assert.NotSame(t, target, kept)

	merged := reconcile.Nested(target, &item{Label: "b"}, ids)
	assert.Equal(t, &item{ID: "1", Label: "b"}, merged)

	fresh := reconcile.Nested(nil, &item{Label: "c"}, ids)
	assert.Equal(t, &item{Label: "c"}, fresh)

	assert.Nil(t, reconcile.CloneNested[item](nil))
	assert.Equal(t, target, reconcile.CloneNested(target))
}

func TestAttributes(t *testing.T) {
	target := map[string]any{
		"severity": "low",
		"estimate": 3,
		"meta": map[string]any{
			"owner": "ops",
			"tags":  []any{"a"},
		},
	}

	t.Run("nil source keeps a deep copy", func(t *testing.T) {
		got := reconcile.Attributes(target, nil)
		assert.Equal(t, target, got)
		got["meta"].(map[string]any)["owner"] = "dev"
		assert.Equal(t, "ops", target["meta"].(map[string]any)["owner"])
	})

	t.Run("merge patch", func(t *testing.T) {
		got := reconcile.Attributes(target, map[string]any{
			"severity": "high",
			"estimate": nil,
			"meta":     map[string]any{"owner": nil, "team": "core"},
			"new":      true,
		})
		assert.Equal(t, map[string]any{
			"severity": "high",
			"meta":     map[string]any{"tags": []any{"a"}, "team": "core"},
			"new":      true,
		}, got)
		assert.Equal(t, 3, target["estimate"], "target untouched")
	})

	t.Run("object replaces scalar", func(t *testing.T) {
		got := reconcile.Attributes(map[string]any{"k": "v"}, map[string]any{"k": map[string]any{"x": 1, "y": nil}})
		assert.Equal(t, map[string]any{"k": map[string]any{"x": 1}}, got)
	})

	t.Run("nil target", func(t *testing.T) {
		got := reconcile.Attributes(nil, map[string]any{"a": 1, "b": nil})
		assert.Equal(t, map[string]any{"a": 1}, got)
		assert.Nil(t, reconcile.CloneAttributes(nil))
	})
}
