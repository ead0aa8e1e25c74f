package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/auth"
	"github.com/Makepad-fr/tada/internal/todos"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

// -------------- list subcommands ----------------

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a new item (name can be multiple words)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usagef("usage: todo add <name...>")
			}
			s, closeFn, err := a.openList(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			it, err := s.Add(cmd.Context(), strings.TrimSpace(strings.Join(args, " ")))
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
			if it == nil {
				ui.Note(cmd.OutOrStdout(), "empty name, nothing added")
				return nil
			}
			ui.OK(cmd.OutOrStdout(), "added "+ui.ShortID(it.ID))
			return nil
		},
	}
}

func newDoneCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle done for the item with this id (or unique id prefix)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("usage: todo done <id>")
			}
			return a.applyByID(cmd, args[0], "toggled", (*todos.Store).Toggle)
		},
	}
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove the item with this id (or unique id prefix)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usagef("usage: todo rm <id>")
			}
			return a.applyByID(cmd, args[0], "removed", (*todos.Store).Remove)
		},
	}
}

type todoOp func(s *todos.Store, ctx context.Context, id string) (bool, error)

// applyByID resolves ref and runs op on it. An id that matches nothing is
// reported but is not an error.
func (a *app) applyByID(cmd *cobra.Command, ref, verb string, op todoOp) error {
	s, closeFn, err := a.openList(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	id, err := s.Resolve(ref)
	if errors.Is(err, todos.ErrAmbiguousID) {
		ui.Note(cmd.OutOrStdout(), fmt.Sprintf("id prefix %q matches more than one item, nothing %s", ref, verb))
		fmt.Fprintln(cmd.OutOrStdout(), ui.Current().Muted.Render("Hint: type more of the id"))
		return nil
	}
	if err != nil {
		id = ref
	}
	found, err := op(s, cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if !found {
		ui.Note(cmd.OutOrStdout(), fmt.Sprintf("no item matches %q, nothing %s", ref, verb))
		fmt.Fprintln(cmd.OutOrStdout(), ui.Current().Muted.Render("Hint: run `todo ls` to see ids"))
		return nil
	}
	ui.OK(cmd.OutOrStdout(), verb)
	return nil
}

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List items",
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeFn, err := a.openList(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			ui.Panel(cmd.OutOrStdout(), listLines(s.Items(), a.opt.Group))
			return nil
		},
	}
	cmd.Flags().BoolVar(&a.opt.Group, "group", false, "group output by pending/done")
	return cmd
}

func newTUICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit the list interactively",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, closeFn, err := a.openList(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			if err := tui.Run(cmd.Context(), s); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}

func newResetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Overwrite the stored list with an empty one",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			backend, err := a.openBackend(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = backend.Close() }()

			if err := todos.Reset(cmd.Context(), backend); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "reset")
			return nil
		},
	}
}

// -------------- credential subcommands ----------------

func newAuthCommand(_ *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the credential used for the redis backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return usagef("usage: todo auth <login|logout|status>")
		},
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "login",
			Short: "Save a credential to ~/.tada/credentials.json",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprint(cmd.OutOrStdout(), "Paste your token: ")
				var token string
				if _, err := fmt.Fscanln(cmd.InOrStdin(), &token); err != nil {
					return fmt.Errorf("read token: %w", err)
				}
				if err := auth.SetToken(token); err != nil {
					return fmt.Errorf("save token: %w", err)
				}
				ui.OK(cmd.OutOrStdout(), "logged in")
				return nil
			},
		},
		&cobra.Command{
			Use:   "logout",
			Short: "Delete the saved credential",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				// An unreadable file is still deleted.
				ti, err := auth.GetToken()
				if err != nil {
					ui.Note(cmd.OutOrStdout(), "ignoring unreadable credentials: "+err.Error())
				}
				if ti != nil && ti.Source == auth.SourceEnv {
					ui.OK(cmd.OutOrStdout(), "token is provided by "+auth.EnvToken+" env var (nothing to delete)")
					return nil
				}
				if err := auth.DeleteToken(); err != nil {
					return fmt.Errorf("logout: %w", err)
				}
				ui.OK(cmd.OutOrStdout(), "logged out")
				return nil
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show where the credential comes from",
			Args:  noArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				out := cmd.OutOrStdout()
				ti, err := auth.GetToken()
				if err != nil {
					return err
				}
				if ti == nil {
					ui.Note(out, "not logged in")
					fmt.Fprintln(out, "Run: todo auth login")
					return nil
				}
				fmt.Fprintf(out, "source: %s\n", ti.Source)
				if !ti.CreatedAt.IsZero() {
					fmt.Fprintf(out, "saved: %s\n", ti.CreatedAt.UTC().Format(time.RFC3339))
				}
				fmt.Fprintf(out, "env override: %s\n", auth.EnvToken)
				return nil
			},
		},
	)
	return cmd
}
