package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/athena-mcp/internal/athena"
)

// rootCmd represents the base command for the athena-mcp application
var rootCmd = &cobra.Command{
	Use:   "athena-mcp",
	Short: "MCP server for athenahealth appointment scheduling",
	Long: `athena-mcp is a Model Context Protocol (MCP) server that lets AI assistants
look up and manage appointments in an athenahealth practice.

It authenticates against athenahealth with the OAuth2 client-credentials grant
and exposes scheduling operations (appointments, open slots, providers,
departments, appointment types, patient search) as MCP tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "athena-mcp version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		writeError(os.Stderr, err)
		os.Exit(1)
	}
}

// writeError prints err the way the CLI reports failures. Missing athenahealth
// settings are followed by the export lines needed to fix them.
func writeError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var missing *athena.MissingEnvError
	if !errors.As(err, &missing) {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Please set the following environment variables:")
	fmt.Fprintf(w, "export %s='your_client_id'\n", athena.EnvClientID)
	fmt.Fprintf(w, "export %s='your_client_secret'\n", athena.EnvClientSecret)
	fmt.Fprintf(w, "export %s='your_practice_id'\n", athena.EnvPracticeID)
	fmt.Fprintf(w, "export %s='%s'  # Optional, defaults to production\n", athena.EnvBaseURL, athena.DefaultBaseURL)
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
