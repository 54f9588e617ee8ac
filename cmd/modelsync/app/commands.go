package app

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/modelsync"
	"github.com/agentstation/modelsync/internal/cmd/output"
	"github.com/agentstation/modelsync/internal/documents"
	"github.com/agentstation/modelsync/pkg/constants"
	"github.com/agentstation/modelsync/pkg/errors"
)

// NewValidateCommand creates the validate command.
func (a *App) NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "validate <document>",
		GroupID: "core",
		Short:   "Validate a model and print it normalized",
		Long: `Validate checks every field of the model, resolves its references and
prints the normalized model, with identities assigned to new collection
elements. On failure the first violation is printed with its field path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := documents.Load(args[0])
			if err != nil {
				return err
			}
			h, err := a.registry.Lookup(doc.Kind)
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *modelsync.Client) (any, error) {
				return h.Validate(ctx, c, doc)
			})
		},
	}
}

// NewMergeCommand creates the merge command.
func (a *App) NewMergeCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "merge <target> <source>",
		GroupID: "core",
		Short:   "Patch a model with the fields set in source",
		Long: `Merge applies source to target with patch semantics: fields absent from
source keep the target's value, collections are matched element by element
by identity. The merged model is validated before it is printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, source, h, err := a.loadPair(args[0], args[1])
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *modelsync.Client) (any, error) {
				return h.Merge(ctx, c, target, source)
			})
		},
	}
}

// NewUpdateCommand creates the update command.
func (a *App) NewUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "update <target> <source>",
		GroupID: "core",
		Short:   "Replace a model with source, keeping system-owned fields",
		Long: `Update replaces target with source: fields absent from source are cleared.
The target's id and timestamps are kept. The result is validated before it
is printed.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, source, h, err := a.loadPair(args[0], args[1])
			if err != nil {
				return err
			}
			return a.run(cmd, func(ctx context.Context, c *modelsync.Client) (any, error) {
				return h.Update(ctx, c, target, source)
			})
		},
	}
}

// NewPlanCommand creates the plan command.
func (a *App) NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "plan <target> <source>",
		GroupID: "core",
		Short:   "Show how merging source would reconcile each collection",
		Long: `Plan matches the collection elements of source against target by identity
and shows which elements would be kept, added or removed. Nothing is
validated and no lookups are made.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, source, h, err := a.loadPair(args[0], args[1])
			if err != nil {
				return err
			}
			plans, err := h.Plan(target, source)
			if err != nil {
				return err
			}
			format := output.Format(a.config.Format)
			if format == output.FormatTable {
				return output.NewFormatter(format).Format(cmd.OutOrStdout(), output.PlanData(plans))
			}
			return a.formatter().Format(cmd.OutOrStdout(), plans)
		},
	}
}

// NewKindsCommand creates the kinds command.
func (a *App) NewKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the document kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, k := range a.registry.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
		},
	}
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "modelsync %s\n", a.version)
			if a.config.Verbose {
				fmt.Fprintf(w, "  commit:   %s\n", a.commit)
				fmt.Fprintf(w, "  built:    %s\n", a.date)
				fmt.Fprintf(w, "  built by: %s\n", a.builtBy)
			}
		},
	}
}

// loadPair loads a target and source document and picks their handler.
func (a *App) loadPair(targetPath, sourcePath string) (*documents.Document, *documents.Document, documents.Handler, error) {
	target, err := documents.Load(targetPath)
	if err != nil {
		return nil, nil, nil, err
	}
	source, err := documents.Load(sourcePath)
	if err != nil {
		return nil, nil, nil, err
	}
	h, err := a.registry.Pair(target, source)
	if err != nil {
		return nil, nil, nil, err
	}
	return target, source, h, nil
}

// run executes one engine operation within the command timeout and prints
// its result. A violation is printed to stderr and returned as the error.
func (a *App) run(cmd *cobra.Command, op func(context.Context, *modelsync.Client) (any, error)) error {
	c, err := a.Client()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), constants.CommandTimeout)
	defer cancel()

	result, err := op(ctx, c)
	if err != nil {
		if fe, ok := errors.AsFieldError(err); ok {
			a.printViolation(cmd.ErrOrStderr(), fe)
			return fmt.Errorf("rejected: %w", err)
		}
		return err
	}
	return a.formatter().Format(cmd.OutOrStdout(), result)
}

func (a *App) printViolation(w io.Writer, fe *errors.FieldError) {
	var data any = output.NewViolation(fe)
	if output.Format(a.config.Format) == output.FormatTable {
		data = output.ViolationData(fe)
	}
	if err := a.formatter().Format(w, data); err != nil {
		a.logger.Warn().Err(err).Msg("Failed to print violation")
	}
}

func (a *App) formatter() output.Formatter {
	return output.NewFormatter(output.DetectFormat(a.config.Format))
}
