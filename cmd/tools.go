package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/teemow/athena-mcp/internal/tools/scheduling_tools"
)

func newToolsCmd() *cobra.Command {
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print the MCP tool catalog as JSON",
		Long: `Print the tool definitions returned by tools/list as a JSON array.
No athenahealth credentials are needed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCatalog(cmd.OutOrStdout(), readOnly)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Only list tools that do not modify appointments")

	return cmd
}

func writeCatalog(w io.Writer, readOnly bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(scheduling_tools.Catalog(readOnly)); err != nil {
		return fmt.Errorf("failed to encode tool catalog: %w", err)
	}
	return nil
}
