package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionWaitCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionListCmd())

	return cmd
}

func newSessionCreateCmd() *cobra.Command {
	var saveToken bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new session",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CreateSessionResult

			if err := client.Post("/api/v1/sessions", nil, &result); err != nil {
				return err
			}

			if saveToken {
				if err := cfg.SaveToken(fmt.Sprintf("%d", result.AdminToken)); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&saveToken, "save-token", true, "Save the admin token to the token file")

	return cmd
}

func newSessionJoinCmd() *cobra.Command {
	var name string
	var saveToken bool

	cmd := &cobra.Command{
		Use:   "join <code>",
		Short: "Join a session by code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			req := map[string]string{}
			if name != "" {
				req["name"] = name
			}

			var result JoinResult

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/join", url.PathEscape(code)), req, &result); err != nil {
				return err
			}

			if saveToken {
				if err := cfg.SaveToken(fmt.Sprintf("%d", result.PlayerToken)); err != nil {
					return err
				}
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name for the player")
	cmd.Flags().BoolVar(&saveToken, "save-token", true, "Save the player token to the token file")

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <code>",
		Short: "Start a session (admin only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Snapshot

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/start", url.PathEscape(code)), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionWaitCmd() *cobra.Command {
	var timeout string

	cmd := &cobra.Command{
		Use:   "wait <code>",
		Short: "Block until the session starts, then print its state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			path := fmt.Sprintf("/api/v1/sessions/%s/wait", url.PathEscape(code))
			if timeout != "" {
				path += "?timeout=" + url.QueryEscape(timeout)
			}

			var result Snapshot

			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&timeout, "timeout", "", "Maximum time to wait (e.g. 30s, 5m)")

	return cmd
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]

			var result Snapshot

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", url.PathEscape(code)), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result SessionList

			if err := client.Get("/api/v1/sessions", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
