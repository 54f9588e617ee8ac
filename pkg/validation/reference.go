package validation

import (
	"context"

	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/lookup"
)

// Reference schedules one existence check of kind/id at path.field. A miss
// or a failing gateway becomes a reference violation at that path. On
// success then, if not nil, runs with the answer; its error is the
// obligation's result, which is how dependent checks (attribute schemas)
// take part in the join.
//
// An empty id is treated as absent and nothing is scheduled.
func (c *Context) Reference(field string, kind lookup.Kind, id string, then func(*lookup.Reference) error) {
	if id == "" {
		return
	}
	path := c.at(field)
	gw := c.env.lookups.Gateway

	c.Go(func(ctx context.Context) error {
		if gw == nil {
			return errors.NewReferenceViolation(path, string(kind), id,
				errors.NewConfigError("validation", "no lookup gateway configured", nil))
		}
		ref, err := gw.CheckExists(ctx, kind, id)
		if err != nil {
			return errors.NewReferenceViolation(path, string(kind), id, err)
		}
		if then != nil {
			return then(ref)
		}
		return nil
	})
}
