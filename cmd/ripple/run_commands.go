package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ripple/internal/api"
	"ripple/internal/ipc"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Start, stop, and inspect pipeline runs",
	}

	runCmd.AddCommand(newRunStartCommand(ctx))
	runCmd.AddCommand(newRunStopCommand(ctx))
	runCmd.AddCommand(newRunListCommand(ctx))
	runCmd.AddCommand(newRunShowCommand(ctx))

	return runCmd
}

func newRunStartCommand(ctx *commandContext) *cobra.Command {
	var tag string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a pipeline run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RunStart(strings.TrimSpace(tag))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Run)
				}
				stdout := cmd.OutOrStdout()
				label := resp.Run.Tag
				if label == "" {
					label = "all tags"
				}
				fmt.Fprintf(stdout, "Run %s started for %s\n", resp.Run.ID, label)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Workflow tag to process (all tags when empty)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the run snapshot as JSON")
	return cmd
}

func newRunStopCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stop <run-id>",
		Short: "Request a clean halt of a running pipeline run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RunStop(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Stopped {
					fmt.Fprintln(stdout, "Run not found or already finished")
					return nil
				}
				fmt.Fprintln(stdout, "Stop requested; the run halts after the current item")
				return nil
			})
		},
	}
}

func newRunListCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active and recently finished runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RunList()
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Runs)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Runs) == 0 {
					fmt.Fprintln(stdout, "No runs recorded")
					return nil
				}
				fmt.Fprint(stdout, renderTable(
					[]string{"ID", "Tag", "State", "Stage", "Started", "Failed"},
					buildRunListRows(resp.Runs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				fmt.Fprintln(stdout)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit runs as JSON")
	return cmd
}

func newRunShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run including its log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.RunShow(strings.TrimSpace(args[0]))
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Run)
				}
				renderRun(cmd, resp.Run)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the run as JSON")
	return cmd
}

func renderRun(cmd *cobra.Command, run api.Run) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Run "+run.ID, colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Tag", statusInfo, runTagLabel(run.Tag), colorize))
	fmt.Fprintln(stdout, renderStatusLine("State", runStateKind(run.State), run.State, colorize))
	if run.Stage != "" {
		fmt.Fprintln(stdout, renderStatusLine("Stage", statusInfo, run.Stage, colorize))
	}
	if run.StartedAt != "" {
		fmt.Fprintln(stdout, renderStatusLine("Started", statusInfo, run.StartedAt, colorize))
	}
	if run.Error != "" {
		fmt.Fprintln(stdout, renderStatusLine("Error", statusError, run.Error, colorize))
	}
	fmt.Fprintln(stdout)

	fmt.Fprint(stdout, renderTable(
		[]string{"Discovered", "Scored", "Generated", "Submitted", "Confirmed", "Boosted", "Failed", "Timed Out"},
		[][]string{{
			fmt.Sprint(run.Summary.Discovered),
			fmt.Sprint(run.Summary.Scored),
			fmt.Sprint(run.Summary.Generated),
			fmt.Sprint(run.Summary.Submitted),
			fmt.Sprint(run.Summary.Confirmed),
			fmt.Sprint(run.Summary.Boosted),
			fmt.Sprint(run.Summary.Failed),
			fmt.Sprint(run.Summary.TimedOut),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	fmt.Fprintln(stdout)

	if len(run.Log) > 0 {
		fmt.Fprintln(stdout)
		for _, line := range renderSectionHeader("Log", colorize) {
			fmt.Fprintln(stdout, line)
		}
		for _, line := range run.Log {
			fmt.Fprintln(stdout, statusIndent+line)
		}
	}
}

func buildRunListRows(runs []api.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.ID,
			runTagLabel(run.Tag),
			run.State,
			run.Stage,
			run.StartedAt,
			fmt.Sprint(run.Summary.Failed),
		})
	}
	return rows
}

func buildRunRows(runs []api.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{run.ID, runTagLabel(run.Tag), run.Stage, run.StartedAt})
	}
	return rows
}

func runTagLabel(tag string) string {
	if strings.TrimSpace(tag) == "" {
		return "(all)"
	}
	return tag
}

func runStateKind(state string) statusKind {
	switch state {
	case "done":
		return statusOK
	case "error":
		return statusError
	case "stopped":
		return statusWarn
	default:
		return statusInfo
	}
}
