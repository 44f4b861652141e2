package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/unifiedui/admin-console/internal/app"
	"github.com/unifiedui/admin-console/internal/config"
	"github.com/unifiedui/admin-console/internal/domain/models"
	"github.com/unifiedui/admin-console/internal/pkg/logging"
	"github.com/unifiedui/admin-console/internal/services/console"
)

// errReported marks a failure whose result was already printed.
var errReported = errors.New("command failed")

// opener builds the console for one CLI invocation.
type opener func(ctx context.Context, verbose bool) (*app.App, error)

type cliState struct {
	open    opener
	app     *app.App
	verbose bool
	output  string
}

func openConsole(ctx context.Context, verbose bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	logger := logging.Setup(logging.Config{Level: level, Format: logging.FormatConsole})

	return app.New(ctx, cfg, logger, app.Options{})
}

func newRootCommand(open opener) *cobra.Command {
	state := &cliState{open: open}

	cmd := &cobra.Command{
		Use:           "admin-cli",
		Short:         "Look up users and manage their entitlements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			if state.output != outputText && state.output != outputJSON {
				return fmt.Errorf("unsupported output format %q", state.output)
			}
			a, err := state.open(cmd.Context(), state.verbose)
			if err != nil {
				return err
			}
			state.app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if state.app != nil {
				return state.app.Close()
			}
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&state.verbose, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().StringVarP(&state.output, "output", "o", outputText, "output format (text|json)")

	cmd.AddCommand(
		newFindCommand(state),
		newSimpleCommand(state, "show", "Show the loaded user and panel state", console.Show{}),
		newSimpleCommand(state, "reset", "Unload the current user", console.Reset{}),
		newSimpleCommand(state, "close", "Close the console and clear the session", console.Close{}),
		newSimpleCommand(state, "subscribe", "Activate the environment's subscription for the loaded user", console.GrantSubscription{}),
		newTokensCommand(state),
		newToggleCommand(state),
		newSetCommand(state),
		newOptionsCommand(state),
		newCollapseCommand(state),
		newMoveCommand(state),
	)
	return cmd
}

// run dispatches cmd and prints its result.
func (s *cliState) run(c *cobra.Command, cmd console.Command) error {
	res := s.app.Console.Dispatch(c.Context(), cmd)
	if err := printResult(c.OutOrStdout(), res, s.output); err != nil {
		return err
	}
	if !res.OK {
		return errReported
	}
	return nil
}

func newSimpleCommand(state *cliState, use, short string, command console.Command) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.run(cmd, command)
		},
	}
}

func newFindCommand(state *cliState) *cobra.Command {
	var id, email, lastEdited string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Resolve a user by ID or email and load it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			field := models.ParseSearchField(lastEdited)
			if lastEdited != "" && field == models.SearchFieldNone {
				return fmt.Errorf("--last-edited must be id or email")
			}
			return state.run(cmd, console.FindUser{IDInput: id, EmailInput: email, LastEdited: field})
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "user ID")
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.Flags().StringVar(&lastEdited, "last-edited", "", "search key to prefer when both are given (id|email)")
	return cmd
}

func newTokensCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <amount>",
		Short: "Set the loaded user's token balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.run(cmd, console.UpdateTokens{Amount: args[0]})
		},
	}
}

func newToggleCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <feature>",
		Short: "Flip a feature flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return state.run(cmd, console.ToggleFeature{Key: args[0]})
		},
	}
}

func newSetCommand(state *cliState) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "set <feature> <value>",
		Short: "Set a feature value",
		Long:  "Set a feature value. The value is sent as text unless --json is given; numeric features parse text input.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := models.Text(args[1])
			if asJSON {
				if err := json.Unmarshal([]byte(args[1]), &value); err != nil {
					return fmt.Errorf("invalid JSON value: %w", err)
				}
			}
			return state.run(cmd, console.SetFeature{Key: args[0], Value: value})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "parse the value as JSON")
	return cmd
}

func newOptionsCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "options <feature> [option]",
		Short: "List a feature's options, or set the feature to one of them",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return state.run(cmd, console.ListOptions{Key: args[0]})
			}
			return state.run(cmd, console.SetFeatureFromOption{Key: args[0], Option: args[1]})
		},
	}
}

func newCollapseCommand(state *cliState) *cobra.Command {
	var collapsed bool
	cmd := &cobra.Command{
		Use:   "collapse",
		Short: "Toggle the panel, or set it with --collapsed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("collapsed") {
				return state.run(cmd, console.SetCollapsed{Collapsed: collapsed})
			}
			return state.run(cmd, console.ToggleCollapse{})
		},
	}
	cmd.Flags().BoolVar(&collapsed, "collapsed", false, "collapsed state to set")
	return cmd
}

func newMoveCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "move <left> <top>",
		Short: "Move the panel",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			left, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid left offset %q", args[0])
			}
			top, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid top offset %q", args[1])
			}
			return state.run(cmd, console.MovePanel{Position: models.Position{Left: left, Top: top}})
		},
	}
}
