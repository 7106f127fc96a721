// cmd_init.go - init Command fuer den Vulkan Bring-up
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/device"
)

// InitHandler - Startet den Vulkan Bring-up auf dem Server oder lokal
func InitHandler(cmd *cobra.Command, _ []string) error {
	req := &api.InitRequest{}
	if cmd.Flags().Changed("attempts") {
		n, err := cmd.Flags().GetUint("attempts")
		if err != nil {
			return err
		}
		req.Attempts = &n
	}
	if cmd.Flags().Changed("delay") {
		d, err := cmd.Flags().GetDuration("delay")
		if err != nil {
			return err
		}
		req.Delay = api.Duration{Duration: d}
	}

	var resp *api.InitResponse
	if local, _ := cmd.Flags().GetBool("local"); local {
		var opts []device.InitOption
		if req.Attempts != nil {
			opts = append(opts, device.WithAttempts(*req.Attempts))
		}
		if req.Delay.Duration > 0 {
			opts = append(opts, device.WithDelay(req.Delay.Duration))
		}

		ok, attempts := (&bindings.Binding{}).InitVulkanAttempts(cmd.Context(), opts...)
		resp = &api.InitResponse{Ready: ok, Attempts: attempts}
	} else {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		if resp, err = client.Init(cmd.Context(), req); err != nil {
			return err
		}
	}

	if !resp.Ready {
		return fmt.Errorf("vulkan not ready after %d attempts", resp.Attempts)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "vulkan ready after %d attempt(s)\n", resp.Attempts)
	return nil
}

// newInitCmd - Erstellt den init Command
func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Bring up the vulkan loader",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    InitHandler,
	}
	cmd.Flags().Uint("attempts", 0, "Load attempts (default from KOMPUTE_VK_INIT_RETRIES)")
	cmd.Flags().Duration("delay", time.Second, "Pause between attempts")
	cmd.Flags().Bool("local", false, "Load vulkan in this process instead of on the server")
	return cmd
}
