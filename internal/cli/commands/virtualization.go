package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/spf13/cobra"
)

// NewVirtualizationCommand creates the virtualization command group.
func NewVirtualizationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "virtualization",
		Aliases: []string{"virt"},
		Short:   "Manage virtualizations",
		Long:    `List, create and delete virtualizations in the state database.`,
	}

	cmd.AddCommand(newVirtualizationListCommand())
	cmd.AddCommand(newVirtualizationCreateCommand())
	cmd.AddCommand(newVirtualizationDeleteCommand())

	return cmd
}

func newVirtualizationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List virtualizations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			virts, err := store.ListVirtualizations(cmd.Context())
			if err != nil {
				return err
			}
			return renderVirtualizations(cc.Renderer, virts)
		},
	}
}

func renderVirtualizations(r *output.Renderer, virts []*core.Virtualization) error {
	infos := make([]output.VirtualizationInfo, len(virts))
	for i, v := range virts {
		infos[i] = output.VirtualizationInfo{Name: v.ID, Description: v.Description, Views: len(v.Views)}
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.ListOutput{Virtualizations: infos})
	}

	r.Header(1, "Virtualizations")
	if len(infos) == 0 {
		r.Muted("No virtualizations. Run 'leapview import' or 'leapview virtualization create <name>'.")
		return nil
	}
	rows := make([][]string, len(infos))
	for i, info := range infos {
		rows[i] = []string{info.Name, strconv.Itoa(info.Views), info.Description}
	}
	r.Table([]string{"Name", "Views", "Description"}, rows)
	return nil
}

func newVirtualizationCreateCommand() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:     "create <name>",
		Short:   "Create an empty virtualization",
		Example: `  leapview virtualization create sales --description "Sales data"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			ctx := cmd.Context()
			msg, err := store.ValidateName(ctx, args[0])
			if err != nil {
				return err
			}
			if msg != "" {
				return fmt.Errorf("invalid name %q: %s", args[0], msg)
			}

			if err := store.CreateVirtualization(ctx, &core.Virtualization{ID: args[0], Description: description}); err != nil {
				return fmt.Errorf("failed to create virtualization: %w", err)
			}
			cc.Renderer.StatusLine(args[0], "created", "")
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Virtualization description")
	return cmd
}

func newVirtualizationDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a virtualization and all of its views",
		Args:    cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			return completeNames(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContext(cmd)
			store, err := cc.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			err = store.DeleteVirtualization(cmd.Context(), args[0])
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("virtualization %q not found", args[0])
			}
			if err != nil {
				return err
			}
			cc.Renderer.StatusLine(args[0], "deleted", "")
			return nil
		},
	}
}

// completeNames completes a virtualization name for the first argument and a
// view name of that virtualization for the second.
func completeNames(cmd *cobra.Command, args []string) ([]string, cobra.ShellCompDirective) {
	cc := NewCommandContext(cmd)
	store, err := cc.OpenStore()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	switch len(args) {
	case 0:
		virts, err := store.ListVirtualizations(ctx)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, len(virts))
		for i, v := range virts {
			names[i] = v.ID
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	case 1:
		virt, err := store.GetVirtualization(ctx, args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return virt.ViewNames(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}
