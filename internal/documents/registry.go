package documents

import (
	"context"
	"slices"

	"github.com/agentstation/modelsync"
	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/models"
	"github.com/agentstation/modelsync/pkg/reconcile"
)

// Handler runs engine operations on documents of one kind.
type Handler interface {
	Kind() models.Kind
	Validate(ctx context.Context, c *modelsync.Client, doc *Document) (any, error)
	Merge(ctx context.Context, c *modelsync.Client, target, source *Document) (any, error)
	Update(ctx context.Context, c *modelsync.Client, target, source *Document) (any, error)
	Plan(target, source *Document) ([]ListPlan, error)
}

// ListPlan is the reconciliation plan of one collection field.
type ListPlan struct {
	Field string          `json:"field" yaml:"field"`
	Plan  *reconcile.Plan `json:"plan" yaml:"plan"`
}

// Registry maps kinds to handlers.
type Registry struct {
	handlers map[models.Kind]Handler
}

// NewRegistry returns a registry holding a handler for every model kind.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[models.Kind]Handler)}
	r.Register(handler[models.Task, *models.Task]{
		kind: models.KindTask,
		lists: []planner[models.Task]{
			list[models.Task, models.Member]("members", func(t *models.Task) []models.Member { return t.Members }),
			list[models.Task, models.ChecklistItem]("checklist", func(t *models.Task) []models.ChecklistItem { return t.Checklist }),
		},
	})
	r.Register(handler[models.TaskType, *models.TaskType]{
		kind: models.KindTaskType,
		lists: []planner[models.TaskType]{
			list[models.TaskType, models.AttributeDefinition]("attributes", func(t *models.TaskType) []models.AttributeDefinition { return t.Attributes }),
		},
	})
	r.Register(handler[models.Team, *models.Team]{
		kind: models.KindTeam,
		lists: []planner[models.Team]{
			list[models.Team, models.Member]("members", func(t *models.Team) []models.Member { return t.Members }),
		},
	})
	r.Register(handler[models.Event, *models.Event]{
		kind: models.KindEvent,
		lists: []planner[models.Event]{
			list[models.Event, models.Reminder]("reminders", func(e *models.Event) []models.Reminder { return e.Reminders }),
		},
	})
	return r
}

// Register adds or replaces the handler for h.Kind().
func (r *Registry) Register(h Handler) {
	r.handlers[h.Kind()] = h
}

// Lookup returns the handler for kind.
func (r *Registry) Lookup(kind models.Kind) (Handler, error) {
	h, ok := r.handlers[kind]
	if !ok {
		return nil, errors.NewNotFoundError("kind", string(kind))
	}
	return h, nil
}

// Kinds returns the registered kinds in sorted order.
func (r *Registry) Kinds() []models.Kind {
	kinds := make([]models.Kind, 0, len(r.handlers))
	for k := range r.handlers {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// Pair returns the handler for a target and source document of the same kind.
func (r *Registry) Pair(target, source *Document) (Handler, error) {
	if target.Kind != source.Kind {
		return nil, errors.NewParseError("yaml", source.File,
			"kind "+string(source.Kind)+" does not match target kind "+string(target.Kind), nil)
	}
	return r.Lookup(target.Kind)
}

// planner computes the plan of one collection, or nil when the source
// leaves the collection absent.
type planner[T any] func(target, source *T) *ListPlan

// list builds the planner of the collection get returns.
func list[T, E any, PE reconcile.Element[E]](field string, get func(*T) []E) planner[T] {
	return func(target, source *T) *ListPlan {
		items := get(source)
		if items == nil {
			return nil
		}
		return &ListPlan{Field: field, Plan: reconcile.PlanList[E, PE](get(target), items)}
	}
}

// handler is the Handler of a model type.
type handler[T any, P reconcile.Record[T]] struct {
	kind  models.Kind
	lists []planner[T]
}

func (h handler[T, P]) Kind() models.Kind {
	return h.kind
}

func (h handler[T, P]) Validate(ctx context.Context, c *modelsync.Client, doc *Document) (any, error) {
	m, err := decodeModel[T](doc)
	if err != nil {
		return nil, err
	}
	if err := modelsync.Validate[T, P](ctx, c, P(m)); err != nil {
		return nil, err
	}
	return m, nil
}

func (h handler[T, P]) Merge(ctx context.Context, c *modelsync.Client, target, source *Document) (any, error) {
	t, s, err := h.decodePair(target, source)
	if err != nil {
		return nil, err
	}
	out, err := modelsync.Merge[T, P](ctx, c, t, s)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h handler[T, P]) Update(ctx context.Context, c *modelsync.Client, target, source *Document) (any, error) {
	t, s, err := h.decodePair(target, source)
	if err != nil {
		return nil, err
	}
	out, err := modelsync.Update[T, P](ctx, c, t, s)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (h handler[T, P]) Plan(target, source *Document) ([]ListPlan, error) {
	t, s, err := h.decodePair(target, source)
	if err != nil {
		return nil, err
	}
	var plans []ListPlan
	for _, p := range h.lists {
		if lp := p((*T)(t), (*T)(s)); lp != nil {
			plans = append(plans, *lp)
		}
	}
	return plans, nil
}

func (h handler[T, P]) decodePair(target, source *Document) (P, P, error) {
	t, err := decodeModel[T](target)
	if err != nil {
		return nil, nil, err
	}
	s, err := decodeModel[T](source)
	if err != nil {
		return nil, nil, err
	}
	return P(t), P(s), nil
}
