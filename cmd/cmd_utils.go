// cmd_utils.go - Hilfsfunktionen fuer Commands
// Hauptfunktionen: checkServerHeartbeat, isTerminal
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ethicalml/kompute-jni/api"
)

// checkServerHeartbeat - Prueft ob der Server erreichbar ist
func checkServerHeartbeat(cmd *cobra.Command, _ []string) error {
	if local, _ := cmd.Flags().GetBool("local"); local {
		return nil
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}
	if err := client.Heartbeat(cmd.Context()); err != nil {
		return fmt.Errorf("kompute server not responding, start it with 'kompute serve' - %w", err)
	}
	return nil
}

// isTerminal - Prueft ob w ein Terminal ist
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
