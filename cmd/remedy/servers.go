package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"remedy/internal/client"
)

var serversCmd = &cobra.Command{
	Use:   "servers [flags] <file>",
	Short: "List the language servers configured for a file",
	Long:  "Show which servers remedy.toml binds to the file's type, with cached capability summaries where available.",
	Args:  cobra.ExactArgs(1),
	RunE:  runServers,
}

func init() {
	serversCmd.Flags().Bool("probe", false, "spawn the servers once to refresh their capability summaries")
}

func runServers(cmd *cobra.Command, args []string) error {
	probe, err := cmd.Flags().GetBool("probe")
	if err != nil {
		return err
	}
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return err
	}

	servers, err := configuredServers(configPath, args[0])
	if err != nil {
		return err
	}
	if len(servers) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no servers configured for %q files\n", filetypeOf(args[0]))
		return nil
	}

	if probe {
		// Attaching a session initializes every configured server, which
		// refreshes the capability cache as a side effect.
		ctx := cmd.Context()
		s, err := newSession(ctx, cmd, args[0])
		if err != nil {
			return err
		}
		s.close(ctx)
	}

	cache, err := client.OpenCapCache("remedy")
	if err != nil {
		cache = nil
	}

	out := cmd.OutOrStdout()
	for _, sc := range servers {
		cmdline := strings.Join(append([]string{sc.Command}, sc.Args...), " ")
		fmt.Fprintf(out, "%s\n  command: %s\n", sc.Name, cmdline)

		var payload client.CapPayload
		ok, err := cache.Get(client.Key(sc.Command, sc.Args), &payload)
		if err != nil || !ok {
			fmt.Fprintln(out, "  capabilities: unknown (run with --probe)")
			continue
		}
		fmt.Fprintf(out, "  encoding: %s\n", payload.PositionEncoding)
		fmt.Fprintf(out, "  capabilities: codeAction=%v resolve=%v executeCommand=%v\n",
			payload.CodeAction, payload.CodeActionResolve, payload.ExecuteCommand)
		fmt.Fprintf(out, "  cached: %s\n", time.Unix(payload.CachedAtUnix, 0).Format(time.RFC3339))
	}
	return nil
}
