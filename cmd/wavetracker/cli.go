package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/markusylisiurunen/wavetracker/toolkit/cell"
	"github.com/spf13/cobra"
)

func newLookupCmd(a *app) *cobra.Command {
	var (
		cells       []string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Fetch tower data and predict the internet speed",
		Example: strings.Join([]string{
			"  wavetracker lookup --cell 244,91,4711,123456",
			"  wavetracker lookup --cell 244,91,4711,123456 --cell 310,260,7033,20481",
		}, "\n"),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(cells) == 0 {
				return fmt.Errorf("at least one --cell is required")
			}
			queries := make([]cell.Query, 0, len(cells))
			for _, raw := range cells {
				q, err := parseCell(raw)
				if err != nil {
					return err
				}
				queries = append(queries, q)
			}
			results := cell.LookupAll(cmd.Context(), a.cell, queries, concurrency)
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&cells, "cell", nil, "tower as mcc,mnc,lac,cellid (repeatable)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "maximum number of lookups in flight")
	return cmd
}

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask WaveBuddy a network question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reply, err := a.relay.Ask(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("WaveBuddy: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(reply))
			return err
		},
	}
}

// parseCell reads a tower given as "mcc,mnc,lac,cellid".
func parseCell(raw string) (cell.Query, error) {
	parts := strings.Split(raw, ",")
	if len(parts) != 4 {
		return cell.Query{}, fmt.Errorf("invalid cell %q: expected mcc,mnc,lac,cellid", raw)
	}
	var values [4]uint64
	names := [4]string{"mcc", "mnc", "lac", "cellid"}
	for i, part := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return cell.Query{}, fmt.Errorf("invalid cell %q: %s must be a non-negative integer", raw, names[i])
		}
		values[i] = v
	}
	return cell.Query{MCC: values[0], MNC: values[1], LAC: values[2], CellID: values[3]}, nil
}

func printResults(w io.Writer, results []cell.Result) {
	for i, res := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		q := res.Query
		fmt.Fprintln(w, color.New(color.Bold).Sprintf("cell %d/%d/%d/%d", q.MCC, q.MNC, q.LAC, q.CellID))
		if res.Err != nil {
			fmt.Fprintln(w, color.New(color.FgRed).Sprint(cell.FormatError(res.Err)))
			continue
		}
		fmt.Fprintln(w, cell.Format(res.Record))
	}
}
