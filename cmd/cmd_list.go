// cmd_list.go - devices und runs Commands
// Hauptfunktionen: DevicesHandler, RunsHandler
package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/device"
)

// DevicesHandler - Listet alle Compute-Geraete
func DevicesHandler(cmd *cobra.Command, _ []string) error {
	var resp *api.DevicesResponse
	if local, _ := cmd.Flags().GetBool("local"); local {
		resp = &api.DevicesResponse{Devices: device.GetDevices(), Selected: device.SelectBestBackend()}
	} else {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		if resp, err = client.Devices(cmd.Context()); err != nil {
			return err
		}
	}

	var data [][]string
	for _, d := range resp.Devices {
		selected := ""
		if d.Backend == resp.Selected {
			selected = "*"
		}
		data = append(data, []string{string(d.Backend), strconv.Itoa(d.DeviceID), d.DeviceName, d.Library, selected})
	}

	renderTable(cmd.OutOrStdout(), []string{"BACKEND", "ID", "NAME", "LIBRARY", "SELECTED"}, data)
	return nil
}

// RunsHandler - Listet die letzten Trainingslaeufe
func RunsHandler(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	client, err := api.ClientFromEnvironment()
	if err != nil {
		return err
	}

	runs, err := client.Runs(cmd.Context(), limit)
	if err != nil {
		return err
	}

	var data [][]string
	for _, r := range runs.Runs {
		if len(args) == 0 || strings.HasPrefix(string(r.Kind), args[0]) {
			params := make([]string, len(r.Params))
			for i, p := range r.Params {
				params[i] = formatFloat(p)
			}

			data = append(data, []string{
				r.ID,
				string(r.Kind),
				strconv.Itoa(r.Samples),
				strconv.Itoa(r.Iterations),
				formatFloat(r.Loss),
				strings.Join(params, " "),
				r.Backend,
				r.Duration.Round(time.Microsecond).String(),
				humanTime(r.CreatedAt),
			})
		}
	}

	renderTable(cmd.OutOrStdout(), []string{"ID", "KIND", "SAMPLES", "ITERATIONS", "LOSS", "PARAMS", "BACKEND", "DURATION", "CREATED"}, data)
	return nil
}

// humanTime - Relative Zeitangabe ("3 minutes ago")
func humanTime(t time.Time) string {
	if t.IsZero() {
		return "Never"
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "Less than a minute ago"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	default:
		return plural(int(d.Hours()/24), "day") + " ago"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// newDevicesCmd - Erstellt den devices Command
func newDevicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "devices",
		Short:   "List compute devices",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    DevicesHandler,
	}
	cmd.Flags().Bool("local", false, "Detect devices in this process instead of on the server")
	return cmd
}

// newRunsCmd - Erstellt den runs Command
func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "runs [kind]",
		Aliases: []string{"ls"},
		Short:   "List recent training runs",
		Args:    cobra.MaximumNArgs(1),
		PreRunE: checkServerHeartbeat,
		RunE:    RunsHandler,
	}
	cmd.Flags().Int("limit", 0, "Maximum number of runs (default from server)")
	return cmd
}
