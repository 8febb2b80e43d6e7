package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ripple/internal/catalog"
	"ripple/internal/ipc"
)

func newDaemonCommands(ctx *commandContext) []*cobra.Command {
	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Start the engagement pipeline inside the rippled daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Start()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Started {
					if resp.Message != "" {
						fmt.Fprintln(stdout, resp.Message)
						return nil
					}
					fmt.Fprintln(stdout, "Daemon already running")
					return nil
				}
				fmt.Fprintln(stdout, "Daemon started")
				return nil
			})
		},
	}

	stopCmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the engagement pipeline and release the instance lock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Stop()
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Stopped {
					fmt.Fprintln(stdout, "Daemon is not running")
					return nil
				}
				fmt.Fprintln(stdout, "Daemon stopped")
				return nil
			})
		},
	}

	var statusJSON bool
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon and catalog status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.Status()
				if err != nil {
					return err
				}
				if statusJSON {
					return writeJSON(cmd, resp)
				}
				renderStatus(cmd, resp)
				return nil
			})
		},
	}
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Emit status as JSON")

	return []*cobra.Command{startCmd, stopCmd, statusCmd}
}

func renderStatus(cmd *cobra.Command, resp *ipc.StatusResponse) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Daemon", colorize) {
		fmt.Fprintln(stdout, line)
	}
	if resp.Running {
		fmt.Fprintln(stdout, renderStatusLine("State", statusOK, fmt.Sprintf("running (pid %d)", resp.PID), colorize))
	} else {
		fmt.Fprintln(stdout, renderStatusLine("State", statusWarn, "stopped", colorize))
	}
	fmt.Fprintln(stdout, renderStatusLine("Catalog", statusInfo, resp.CatalogDBPath, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Lock file", statusInfo, resp.LockPath, colorize))
	if resp.APIAddr != "" {
		fmt.Fprintln(stdout, renderStatusLine("HTTP API", statusInfo, resp.APIAddr, colorize))
	}
	fmt.Fprintln(stdout)

	for _, line := range renderSectionHeader("Catalog Status", colorize) {
		fmt.Fprintln(stdout, line)
	}
	rows := buildStatsRows(resp.Stats)
	if len(rows) == 0 {
		fmt.Fprintln(stdout, "Catalog is empty")
	} else {
		fmt.Fprint(stdout, renderTable([]string{"Status", "Count"}, rows, []columnAlignment{alignLeft, alignRight}))
		fmt.Fprintln(stdout)
	}

	if len(resp.ActiveRuns) > 0 {
		fmt.Fprintln(stdout)
		for _, line := range renderSectionHeader("Active Runs", colorize) {
			fmt.Fprintln(stdout, line)
		}
		fmt.Fprint(stdout, renderTable(
			[]string{"ID", "Tag", "Stage", "Started"},
			buildRunRows(resp.ActiveRuns),
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
		fmt.Fprintln(stdout)
	}
}

// buildStatsRows orders counters by pipeline stage rather than alphabetically.
func buildStatsRows(stats map[string]int) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, status := range catalog.AllStatuses() {
		count, ok := stats[string(status)]
		if !ok || count == 0 {
			continue
		}
		rows = append(rows, []string{string(status), strconv.Itoa(count)})
	}
	return rows
}
