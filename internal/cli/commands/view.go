package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapview/internal/cli/output"
	"github.com/leapstack-labs/leapview/internal/state"
	"github.com/leapstack-labs/leapview/pkg/core"
	"github.com/spf13/cobra"
)

// NewViewCommand creates the view command group.
func NewViewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Manage the views of a virtualization",
	}

	cmd.AddCommand(newViewListCommand())
	cmd.AddCommand(newViewShowCommand())
	cmd.AddCommand(newViewDeleteCommand())

	return cmd
}

func viewInfo(v *core.View) output.ViewInfo {
	sources := make([]string, len(v.Sources))
	for i, s := range v.Sources {
		sources[i] = s.String()
	}
	return output.ViewInfo{
		Name:        v.Name,
		Description: v.Description,
		Editable:    v.Editable,
		Sources:     sources,
	}
}

func newViewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list <virtualization>",
		Aliases: []string{"ls"},
		Short:   "List the views of a virtualization",
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

			views, err := store.ListViews(cmd.Context(), args[0])
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("virtualization %q not found", args[0])
			}
			if err != nil {
				return err
			}

			infos := make([]output.ViewInfo, len(views))
			for i, v := range views {
				infos[i] = viewInfo(v)
			}

			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(output.ListOutput{Views: infos})
			}

			r.Header(1, "Views of "+args[0])
			if len(infos) == 0 {
				r.Muted("No views.")
				return nil
			}
			rows := make([][]string, len(infos))
			for i, info := range infos {
				mode := "editable"
				if !info.Editable {
					mode = "read-only"
				}
				rows[i] = []string{info.Name, strings.Join(info.Sources, ", "), mode, info.Description}
			}
			r.Table([]string{"Name", "Sources", "Mode", "Description"}, rows)
			return nil
		},
	}
}

func newViewShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <virtualization> <view>",
		Short: "Show a view definition",
		Args:  cobra.ExactArgs(2),
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

			view, err := store.GetView(cmd.Context(), args[0], args[1])
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("view %q not found in %s", args[1], args[0])
			}
			if err != nil {
				return err
			}

			info := viewInfo(view)
			r := cc.Renderer
			if r.EffectiveMode() == output.ModeJSON {
				return r.JSON(info)
			}

			r.Header(1, info.Name)
			if info.Description != "" {
				r.Println(info.Description)
				r.Println("")
			}
			r.Println(output.FormatKeyValue("Editable", fmt.Sprintf("%t", info.Editable)))
			r.Println(output.FormatKeyValue("Sources", fmt.Sprintf("%d", len(info.Sources))))
			for _, s := range info.Sources {
				r.Println("  - " + s)
			}
			return nil
		},
	}
}

func newViewDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <virtualization> <view>",
		Aliases: []string{"rm"},
		Short:   "Delete a view",
		Args:    cobra.ExactArgs(2),
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

			err = store.DeleteView(cmd.Context(), args[0], args[1])
			if errors.Is(err, state.ErrNotFound) {
				return fmt.Errorf("view %q not found in %s", args[1], args[0])
			}
			if err != nil {
				return err
			}
			cc.Renderer.StatusLine(args[1], "deleted", args[0])
			return nil
		},
	}
}
