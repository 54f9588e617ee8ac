package reconcile_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
	"github.com/agentstation/modelsync/pkg/logging"
	"github.com/agentstation/modelsync/pkg/reconcile"
	"github.com/agentstation/modelsync/pkg/validation"
)

// item is a collection member with a generated identity.
type item struct {
	ID    string `json:"id,omitempty"`
	Label string `json:"label"`
	Done  *bool  `json:"done,omitempty"`
}

func (i *item) Validate(vc *validation.Context) error {
	return validation.Required(vc, "label", &i.Label)
}

func (i *item) IdentityKey() (string, bool) { return i.ID, i.ID != "" }

func (i *item) Clone() *item {
	if i == nil {
		return &item{}
	}
	out := *i
	out.Done = reconcile.ClonePointer(i.Done)
	return &out
}

func (i *item) MergeWith(source *item, _ lookup.IDGenerator) *item {
	out := i.Clone()
	if out.ID == "" {
		out.ID = source.ID
	}
	out.Label = reconcile.Scalar(out.Label, source.Label)
	out.Done = reconcile.Pointer(out.Done, source.Done)
	return out
}

func (i *item) EnsureIdentity(ids lookup.IDGenerator) {
	if i.ID == "" {
		i.ID = ids.NewID()
	}
}

// watcher is a collection member keyed by a natural key.
type watcher struct {
	UserID string `json:"user_id"`
}

func (w *watcher) Validate(vc *validation.Context) error {
	if err := validation.Required(vc, "user_id", &w.UserID); err != nil {
		return err
	}
	vc.Reference("user_id", lookup.KindProfile, w.UserID, nil)
	return nil
}

func (w *watcher) IdentityKey() (string, bool) { return w.UserID, w.UserID != "" }

func (w *watcher) Clone() *watcher {
	if w == nil {
		return &watcher{}
	}
	out := *w
	return &out
}

func (w *watcher) MergeWith(source *watcher, _ lookup.IDGenerator) *watcher {
	out := w.Clone()
	out.UserID = reconcile.Scalar(out.UserID, source.UserID)
	return out
}

func (w *watcher) EnsureIdentity(lookup.IDGenerator) {}

// note is a root record.
type note struct {
	ID        string         `json:"id,omitempty"`
	CreatedAt *utc.Time      `json:"created_at,omitempty"`
	Title     string         `json:"title"`
	AppID     string         `json:"app_id,omitempty"`
	Status    string         `json:"status,omitempty"`
	Items     []item         `json:"items,omitempty"`
	Watchers  []watcher      `json:"watchers,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

func (n *note) ModelKind() string { return "note" }

func (n *note) Validate(vc *validation.Context) error {
	if err := validation.Required(vc, "title", &n.Title); err != nil {
		return err
	}
	vc.Reference("app_id", lookup.KindApp, n.AppID, nil)
	if err := validation.Enum(vc, "status", n.Status, "open", "closed"); err != nil {
		return err
	}
	if err := reconcile.ValidateList[item](vc, "items", n.Items); err != nil {
		return err
	}
	if err := reconcile.ValidateList[watcher](vc, "watchers", n.Watchers); err != nil {
		return err
	}
	tags, err := validation.Keywords(vc, "tags", n.Tags)
	n.Tags = tags
	return err
}

func (n *note) clone() *note {
	if n == nil {
		return &note{}
	}
	out := *n
	out.CreatedAt = reconcile.ClonePointer(n.CreatedAt)
	out.Items = reconcile.CloneList[item](n.Items)
	out.Watchers = reconcile.CloneList[watcher](n.Watchers)
	out.Tags = reconcile.Strings(nil, n.Tags)
	out.Extra = reconcile.CloneAttributes(n.Extra)
	return &out
}

func (n *note) MergeWith(source *note, ids lookup.IDGenerator) *note {
	out := n.clone()
	if out.ID == "" {
		out.ID = source.ID
	}
	out.Title = reconcile.Scalar(out.Title, source.Title)
	out.AppID = reconcile.Scalar(out.AppID, source.AppID)
	out.Status = reconcile.Scalar(out.Status, source.Status)
	out.Items = reconcile.MergeList[item](out.Items, source.Items, ids)
	out.Watchers = reconcile.MergeList[watcher](out.Watchers, source.Watchers, ids)
	out.Tags = reconcile.Strings(out.Tags, source.Tags)
	out.Extra = reconcile.Attributes(out.Extra, source.Extra)
	return out
}

func (n *note) ReplaceWith(source *note, ids lookup.IDGenerator) *note {
	base := n.clone()
	out := source.clone()
	out.ID = base.ID
	out.CreatedAt = base.CreatedAt
	out.Items = reconcile.ReplaceList[item](source.Items, ids)
	return out
}

func newVC(t *testing.T, gw lookup.Gateway, opts ...validation.Option) *validation.Context {
	t.Helper()
	return validation.NewContext(context.Background(), validation.Lookups{Gateway: gw, IDs: lookup.Sequence("gen-")}, opts...)
}

func gateway() *lookup.Memory {
	return lookup.NewMemory().PutApps("crm").PutProfiles("u1", "u2", "u3")
}

func created() *utc.Time {
	return &utc.Time{Time: time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func pathOf(t *testing.T, err error) string {
	t.Helper()
	fe, ok := errors.AsFieldError(err)
	require.True(t, ok, "expected a FieldError, got %v", err)
	return fe.Path.String()
}

func TestIdentityLaws(t *testing.T) {
	target := &note{ID: "1", Title: "  untouched  "}

	merged, err := reconcile.Merge(newVC(t, nil), target, nil)
	require.NoError(t, err)
	assert.Same(t, target, merged)
	assert.Equal(t, "  untouched  ", merged.Title, "no validation ran")

	updated, err := reconcile.Update(newVC(t, nil), target, nil)
	require.NoError(t, err)
	assert.Same(t, target, updated)
}

func TestMergePreservesAbsentFields(t *testing.T) {
	target := &note{ID: "1", CreatedAt: created(), Title: "Plan", AppID: "crm", Status: "open", Tags: []string{"a"}}
	source := &note{Status: "closed"}

	got, err := reconcile.Merge(newVC(t, gateway()), target, source)
	require.NoError(t, err)

	want := &note{ID: "1", CreatedAt: created(), Title: "Plan", AppID: "crm", Status: "closed", Tags: []string{"a"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("merge mismatch (-want +got):\n%s", diff)
	}
	assert.NotSame(t, target, got)
}

func TestUpdateReplacesAbsentFields(t *testing.T) {
	target := &note{ID: "1", CreatedAt: created(), Title: "Plan", AppID: "crm", Status: "open", Tags: []string{"a"}}
	source := &note{ID: "other", Title: "Replan"}

	got, err := reconcile.Update(newVC(t, gateway()), target, source)
	require.NoError(t, err)

	want := &note{ID: "1", CreatedAt: created(), Title: "Replan"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("update mismatch (-want +got):\n%s", diff)
	}
}

func TestImmutableFieldsSurviveMerge(t *testing.T) {
	target := &note{ID: "1", CreatedAt: created(), Title: "Plan"}
	later := &utc.Time{Time: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	source := &note{ID: "2", CreatedAt: later}

	got, err := reconcile.Merge(newVC(t, gateway()), target, source)
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)

	got, err = reconcile.Update(newVC(t, gateway()), target, &note{ID: "2", CreatedAt: later, Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "1", got.ID)
	assert.Equal(t, created(), got.CreatedAt)
}

func TestMergeListScenario(t *testing.T) {
	target := &note{ID: "n", Title: "t", Items: []item{{ID: "1", Label: "L1"}}}
	source := &note{Items: []item{{ID: "1", Label: "L2"}, {Label: "L3"}}}

	got, err := reconcile.Merge(newVC(t, gateway()), target, source)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "1", Label: "L2"}, {ID: "gen-1", Label: "L3"}}, got.Items)
	assert.Equal(t, []item{{ID: "1", Label: "L1"}}, target.Items)
}

func TestListMergeIdempotence(t *testing.T) {
	items := []item{{ID: "b", Label: "B"}, {ID: "a", Label: "A"}, {ID: "c", Label: "C"}}
	source := []item{{ID: "c", Label: "C"}, {ID: "a", Label: "A"}, {ID: "b", Label: "B"}}

	got := reconcile.MergeList[item](items, source, lookup.Sequence("x"))
	assert.Equal(t, source, got, "output follows source order")

	same := reconcile.MergeList[item](items, items, lookup.Sequence("x"))
	assert.Equal(t, items, same)
}

func TestMergeListDropsUnmatched(t *testing.T) {
	target := []item{{ID: "1", Label: "one"}, {ID: "2", Label: "two"}, {Label: "anon"}}
	source := []item{{ID: "2", Done: boolPtr(true)}, {ID: "9", Label: "nine"}}

	out, plan := reconcile.ReconcileList[item](target, source, lookup.Sequence("g"))
	assert.Equal(t, []item{{ID: "2", Label: "two", Done: boolPtr(true)}, {ID: "9", Label: "nine"}}, out)

	kept, added, removed := plan.Counts()
	assert.Equal(t, 1, kept)
	assert.Equal(t, 1, added)
	assert.Equal(t, 2, removed)
	assert.Equal(t, "kept 1, added 1, removed 2", plan.String())
	assert.Equal(t, reconcile.Step{Action: reconcile.ActionKept, Key: "2", SourceIndex: 0, TargetIndex: 1}, plan.Steps[0])
	assert.Equal(t, reconcile.Step{Action: reconcile.ActionRemoved, Key: "1", SourceIndex: -1, TargetIndex: 0}, plan.Removed[0])
	assert.Contains(t, plan.Describe(), "[1] added 9")
}

func TestReconcileListPlanRecordsAssignedIdentity(t *testing.T) {
	out, plan := reconcile.ReconcileList[item](nil, []item{{Label: "new"}}, lookup.Sequence("g"))
	assert.Equal(t, "g1", out[0].ID)
	assert.Equal(t, reconcile.Step{Action: reconcile.ActionAdded, Key: "g1", SourceIndex: 0, TargetIndex: -1}, plan.Steps[0])
}

func TestMergeListNilSourceKeepsCopy(t *testing.T) {
	target := []item{{ID: "1", Label: "one", Done: boolPtr(false)}}
	out := reconcile.MergeList[item](target, nil, lookup.Sequence("g"))
	assert.Equal(t, target, out)
	*out[0].Done = true
	assert.False(t, *target[0].Done, "copy does not alias target")

	assert.Empty(t, reconcile.MergeList[item](target, []item{}, lookup.Sequence("g")))
}

func TestReplaceList(t *testing.T) {
	out := reconcile.ReplaceList[item]([]item{{ID: "k", Label: "keep"}, {Label: "fresh"}}, lookup.Sequence("r"))
	assert.Equal(t, []item{{ID: "k", Label: "keep"}, {ID: "r1", Label: "fresh"}}, out)
	assert.Nil(t, reconcile.ReplaceList[item](nil, lookup.Sequence("r")))
}

func TestUpdateAssignsIdentitiesWithoutMatching(t *testing.T) {
	target := &note{ID: "n", Title: "t", Items: []item{{ID: "1", Label: "L1"}}}
	source := &note{Title: "t", Items: []item{{Label: "L1"}}}

	got, err := reconcile.Update(newVC(t, gateway()), target, source)
	require.NoError(t, err)
	assert.Equal(t, []item{{ID: "gen-1", Label: "L1"}}, got.Items)
}

func TestDuplicateIdentity(t *testing.T) {
	m := &note{Title: "t", Watchers: []watcher{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u1"}}}
	err := reconcile.Validate(newVC(t, gateway()), m)
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateIdentity(err))
	assert.Equal(t, "watchers[2]", pathOf(t, err))
	assert.Contains(t, err.Error(), "first seen at index 0")
}

func TestDuplicateAfterMerge(t *testing.T) {
	target := &note{ID: "n", Title: "t", Items: []item{{ID: "1", Label: "a"}}}
	source := &note{Items: []item{{ID: "1", Label: "a"}, {ID: "1", Label: "b"}}}

	got, err := reconcile.Merge(newVC(t, gateway()), target, source)
	assert.Nil(t, got)
	assert.Equal(t, "items[1]", pathOf(t, err))
}

func TestValidateNormalizes(t *testing.T) {
	m := &note{Title: "  Plan  ", Items: []item{{Label: " x "}}, Tags: []string{" a", " ", "b "}}
	require.NoError(t, reconcile.Validate(newVC(t, gateway()), m))
	assert.Equal(t, "Plan", m.Title)
	assert.Equal(t, []item{{ID: "gen-1", Label: "x"}}, m.Items)
	assert.Equal(t, []string{"a", "b"}, m.Tags)
}

func TestValidateNilModel(t *testing.T) {
	err := reconcile.Validate[note](newVC(t, gateway()), nil)
	assert.True(t, errors.IsFieldError(err))
	assert.Equal(t, "model", pathOf(t, err))
}

func TestSettledContextIsRefused(t *testing.T) {
	vc := newVC(t, gateway())
	require.NoError(t, reconcile.Validate(vc, &note{Title: "t", Watchers: []watcher{{UserID: "u1"}}}))
	assert.True(t, vc.Settled())

	err := reconcile.Validate(vc, &note{Title: "t", Watchers: []watcher{{UserID: "ghost"}}})
	var cfgErr *errors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.False(t, errors.IsFieldError(err))

	merged, err := reconcile.Merge(vc, &note{Title: "t"}, &note{AppID: "crm"})
	require.ErrorAs(t, err, &cfgErr)
	assert.Nil(t, merged)

	t.Run("after a synchronous failure", func(t *testing.T) {
		vc := newVC(t, gateway())
		require.Error(t, reconcile.Validate(vc, &note{Title: "t", Status: "bogus"}))
		require.ErrorAs(t, reconcile.Validate(vc, &note{Title: "t"}), &cfgErr)
	})
}

func TestFailureLeavesTargetUntouched(t *testing.T) {
	target := &note{ID: "1", Title: "Plan", AppID: "crm", Items: []item{{ID: "a", Label: "A"}}, Extra: map[string]any{"k": "v"}}
	before := target.clone()

	tests := []struct {
		name   string
		source *note
		path   string
	}{
		{name: "sync violation", source: &note{Status: "bogus", Items: []item{{ID: "a", Label: "changed"}}}, path: "status"},
		{name: "reference violation", source: &note{AppID: "missing", Extra: map[string]any{"k": nil}}, path: "app_id"},
		{name: "element violation", source: &note{Items: []item{{ID: "a", Label: "   "}}}, path: "items[0].label"},
	}
	for _, tt := range tests {
		t.Run("merge "+tt.name, func(t *testing.T) {
			got, err := reconcile.Merge(newVC(t, gateway()), target, tt.source)
			assert.Nil(t, got)
			assert.Equal(t, tt.path, pathOf(t, err))
			if diff := cmp.Diff(before, target); diff != "" {
				t.Errorf("target changed (-before +after):\n%s", diff)
			}
		})
	}

	t.Run("update", func(t *testing.T) {
		got, err := reconcile.Update(newVC(t, gateway()), target, &note{Title: ""})
		assert.Nil(t, got)
		assert.Equal(t, "title", pathOf(t, err))
		if diff := cmp.Diff(before, target); diff != "" {
			t.Errorf("target changed (-before +after):\n%s", diff)
		}
	})
}

func TestFirstFailureInTraversalOrder(t *testing.T) {
	gw := gateway()
	gw.Delay(lookup.KindApp, "slow-missing", 20*time.Millisecond)

	t.Run("earlier async failure beats later async failure", func(t *testing.T) {
		m := &note{Title: "t", AppID: "slow-missing", Watchers: []watcher{{UserID: "ghost"}}}
		err := reconcile.Validate(newVC(t, gw), m)
		assert.Equal(t, "app_id", pathOf(t, err))
		assert.True(t, errors.IsReferenceViolation(err))
	})

	t.Run("sync failure short-circuits pending checks", func(t *testing.T) {
		slow := lookup.NewMemory()
		slow.Delay(lookup.KindApp, "crm", time.Hour)
		vc := newVC(t, slow)
		m := &note{Title: "t", AppID: "crm", Status: "bogus"}

		err := reconcile.Validate(vc, m)
		assert.Equal(t, "status", pathOf(t, err))
		assert.Error(t, vc.Ctx().Err(), "pending lookups are cancelled")
	})
}

type recorder struct {
	mu  sync.Mutex
	ops []string
}

func (r *recorder) ObserveOperation(op, model string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	r.ops = append(r.ops, op+" "+model+" "+outcome)
}

func TestObserverAndLogging(t *testing.T) {
	rec := &recorder{}
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	newCtx := func() *validation.Context {
		return validation.NewContext(ctx, validation.Lookups{Gateway: gateway(), IDs: lookup.Sequence("o")}, validation.WithObserver(rec))
	}

	require.NoError(t, reconcile.Validate(newCtx(), &note{Title: "t"}))
	_, err := reconcile.Merge(newCtx(), &note{Title: "t"}, &note{Status: "bogus"})
	require.Error(t, err)

	assert.Equal(t, []string{"validate note ok", "merge note rejected"}, rec.ops)
	testLogger.AssertContains(t, "model accepted")
	testLogger.AssertContains(t, `"path":"status"`)
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, "note", reconcile.KindOf(&note{}))
	assert.Equal(t, "item", reconcile.KindOf(&item{}))
	assert.Equal(t, "unknown", reconcile.KindOf(nil))
}

func boolPtr(b bool) *bool { return &b }
