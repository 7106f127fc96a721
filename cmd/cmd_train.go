// cmd_train.go - predict und params Commands
// Hauptfunktionen: PredictHandler, ParamsHandler, readDataset, loadDatasets
package cmd

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ethicalml/kompute-jni/api"
	"github.com/ethicalml/kompute-jni/bindings"
	"github.com/ethicalml/kompute-jni/device"
	"github.com/ethicalml/kompute-jni/envconfig"
	"github.com/ethicalml/kompute-jni/kompute"
	"github.com/ethicalml/kompute-jni/store"
)

var errNoData = errors.New("no training data, use -f data.csv")

// dataset sind die Spalten x_i, x_j, y einer CSV-Datei
type dataset struct {
	xi, xj, y []float32
}

func (d *dataset) append(o dataset) {
	d.xi = append(d.xi, o.xi...)
	d.xj = append(d.xj, o.xj...)
	d.y = append(d.y, o.y...)
}

// readDataset liest CSV mit drei Spalten (x_i, x_j, y).
// Eine nicht-numerische erste Zeile gilt als Header, '#' leitet Kommentare ein.
func readDataset(r io.Reader) (dataset, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true

	var ds dataset
	for n := 1; ; n++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return dataset{}, err
		}

		var row [3]float32
		for i, field := range record {
			f, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
			if err != nil {
				if n == 1 {
					break
				}
				return dataset{}, fmt.Errorf("record %d, column %d: %w", n, i+1, err)
			}
			row[i] = float32(f)

			if i == len(record)-1 {
				ds.xi = append(ds.xi, row[0])
				ds.xj = append(ds.xj, row[1])
				ds.y = append(ds.y, row[2])
			}
		}
	}

	return ds, nil
}

// loadDatasets liest alle Dateien parallel und haengt sie in Reihenfolge an.
// "-" liest von stdin.
func loadDatasets(ctx context.Context, paths []string) (dataset, error) {
	if len(paths) == 0 {
		return dataset{}, errNoData
	}

	parts := make([]dataset, len(paths))
	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			var r io.Reader = os.Stdin
			if path != "-" {
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			ds, err := readDataset(r)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			parts[i] = ds
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return dataset{}, err
	}

	var ds dataset
	for _, p := range parts {
		ds.append(p)
	}
	if len(ds.y) == 0 {
		return dataset{}, errNoData
	}
	return ds, nil
}

// trainRequest baut die Anfrage aus Dataset und Flags
func trainRequest(cmd *cobra.Command, ds dataset) (*api.TrainRequest, error) {
	req := &api.TrainRequest{XI: ds.xi, XJ: ds.xj, Y: ds.y}

	if cmd.Flags().Changed("iterations") {
		n, err := cmd.Flags().GetInt("iterations")
		if err != nil {
			return nil, err
		}
		req.Iterations = &n
	}

	if cmd.Flags().Changed("learning-rate") {
		lr, err := cmd.Flags().GetFloat32("learning-rate")
		if err != nil {
			return nil, err
		}
		req.LearningRate = &lr
	}

	dev, err := cmd.Flags().GetString("device")
	if err != nil {
		return nil, err
	}
	req.Device = dev

	return req, nil
}

// localBinding trainiert im eigenen Prozess, mit Historie falls aktiviert
func localBinding(req *api.TrainRequest) (*bindings.Binding, []kompute.Option, func(), error) {
	b, err := device.ParseBackend(req.Device)
	if err != nil {
		return nil, nil, nil, err
	}

	opts := []kompute.Option{kompute.WithBackend(b)}
	if req.Iterations != nil {
		opts = append(opts, kompute.WithIterations(*req.Iterations))
	}
	if req.LearningRate != nil {
		opts = append(opts, kompute.WithLearningRate(*req.LearningRate))
	}

	binding := &bindings.Binding{}
	cleanup := func() {}
	if !envconfig.NoHistory() {
		st := &store.Store{}
		binding.Recorder = st
		cleanup = func() { st.Close() }
	}
	return binding, opts, cleanup, nil
}

func prepare(cmd *cobra.Command) (*api.TrainRequest, bool, error) {
	paths, err := cmd.Flags().GetStringSlice("file")
	if err != nil {
		return nil, false, err
	}

	ds, err := loadDatasets(cmd.Context(), paths)
	if err != nil {
		return nil, false, err
	}

	req, err := trainRequest(cmd, ds)
	if err != nil {
		return nil, false, err
	}

	local, _ := cmd.Flags().GetBool("local")
	return req, local, nil
}

// PredictHandler - Trainiert und gibt Vorhersagen aus
func PredictHandler(cmd *cobra.Command, _ []string) error {
	req, local, err := prepare(cmd)
	if err != nil {
		return err
	}

	var resp *api.PredictResponse
	if local {
		binding, opts, cleanup, err := localBinding(req)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := binding.Predict(cmd.Context(), req.XI, req.XJ, req.Y, opts...)
		if err != nil {
			return err
		}
		resp = &api.PredictResponse{Predictions: res.Values, Metrics: api.Metrics{
			RunID:   res.Run.ID,
			Backend: string(res.Backend),
			Loss:    res.Run.Loss,
		}}
	} else {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		if resp, err = client.Predict(cmd.Context(), req); err != nil {
			return err
		}
	}

	data := make([][]string, len(resp.Predictions))
	for i, p := range resp.Predictions {
		data[i] = []string{formatFloat(req.XI[i]), formatFloat(req.XJ[i]), formatFloat(req.Y[i]), formatFloat(p)}
	}

	renderTable(cmd.OutOrStdout(), []string{"X_I", "X_J", "Y", "PREDICTION"}, data)
	printMetrics(cmd, resp.Metrics)
	return nil
}

// ParamsHandler - Trainiert und gibt [w_i, w_j, b] aus
func ParamsHandler(cmd *cobra.Command, _ []string) error {
	req, local, err := prepare(cmd)
	if err != nil {
		return err
	}

	var resp *api.ParamsResponse
	if local {
		binding, opts, cleanup, err := localBinding(req)
		if err != nil {
			return err
		}
		defer cleanup()

		res, err := binding.Params(cmd.Context(), req.XI, req.XJ, req.Y, opts...)
		if err != nil {
			return err
		}
		resp = &api.ParamsResponse{Params: res.Values, Metrics: api.Metrics{
			RunID:   res.Run.ID,
			Backend: string(res.Backend),
			Loss:    res.Run.Loss,
		}}
	} else {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return err
		}

		if resp, err = client.Params(cmd.Context(), req); err != nil {
			return err
		}
	}

	row := make([]string, len(resp.Params))
	for i, p := range resp.Params {
		row[i] = formatFloat(p)
	}

	renderTable(cmd.OutOrStdout(), []string{"W_I", "W_J", "B"}, [][]string{row})
	printMetrics(cmd, resp.Metrics)
	return nil
}

func printMetrics(cmd *cobra.Command, m api.Metrics) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); !verbose {
		return
	}

	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "backend:  %s\n", m.Backend)
	fmt.Fprintf(w, "loss:     %s\n", formatFloat(m.Loss))
	if m.RunID != "" {
		fmt.Fprintf(w, "run:      %s\n", m.RunID)
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', 6, 32)
}

// renderTable - Tabelle im Terminal, sonst tab-separierte Zeilen
func renderTable(w io.Writer, header []string, data [][]string) {
	if !isTerminal(w) {
		for _, row := range data {
			fmt.Fprintln(w, strings.Join(row, "\t"))
		}
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetNoWhiteSpace(true)
	table.SetTablePadding("    ")
	table.AppendBulk(data)
	table.Render()
}

func addTrainFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceP("file", "f", nil, "CSV file(s) with columns x_i,x_j,y (\"-\" for stdin)")
	cmd.Flags().Int("iterations", 0, "Training iterations (default from KOMPUTE_ITERATIONS)")
	cmd.Flags().Float32("learning-rate", 0, "Learning rate (default from KOMPUTE_LEARNING_RATE)")
	cmd.Flags().String("device", "", "Compute backend (cpu, vulkan); empty selects automatically")
	cmd.Flags().Bool("local", false, "Train in this process instead of on the server")
	cmd.Flags().Bool("verbose", false, "Show backend, loss and run id")
}

// newPredictCmd - Erstellt den predict Command
func newPredictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Train on a dataset and print predictions for it",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    PredictHandler,
	}
	addTrainFlags(cmd)
	return cmd
}

// newParamsCmd - Erstellt den params Command
func newParamsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "params",
		Short:   "Train on a dataset and print the learned parameters",
		Args:    cobra.ExactArgs(0),
		PreRunE: checkServerHeartbeat,
		RunE:    ParamsHandler,
	}
	addTrainFlags(cmd)
	return cmd
}
