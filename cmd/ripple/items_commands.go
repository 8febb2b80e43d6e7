package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ripple/internal/api"
	"ripple/internal/ipc"
)

func newItemsCommand(ctx *commandContext) *cobra.Command {
	itemsCmd := &cobra.Command{
		Use:   "items",
		Short: "Inspect and manage discovered catalog items",
	}

	itemsCmd.AddCommand(newItemsListCommand(ctx))
	itemsCmd.AddCommand(newItemsShowCommand(ctx))
	itemsCmd.AddCommand(newItemsRemoveCommand(ctx))
	itemsCmd.AddCommand(newItemsSubmitCommand(ctx))
	itemsCmd.AddCommand(newItemsBoostCommand(ctx))

	return itemsCmd
}

func newItemsListCommand(ctx *commandContext) *cobra.Command {
	var tag string
	var statuses []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemList(strings.TrimSpace(tag), statuses)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Items)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Items) == 0 {
					fmt.Fprintln(stdout, "Catalog is empty")
					return nil
				}
				fmt.Fprint(stdout, renderTable(
					[]string{"ID", "Author", "Tag", "Status", "Score", "Created"},
					buildItemRows(resp.Items),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
				))
				fmt.Fprintln(stdout)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "Only list items with this workflow tag")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Only list items with these statuses")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit items as JSON")
	return cmd
}

func newItemsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one catalog item in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemShow(id)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, resp.Item)
				}
				renderItem(cmd, resp.Item)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the item as JSON")
	return cmd
}

func newItemsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemRemove(id)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Removed {
					fmt.Fprintf(stdout, "Item %d not found\n", id)
					return nil
				}
				fmt.Fprintf(stdout, "Item %d removed\n", id)
				return nil
			})
		},
	}
}

func newItemsSubmitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <id>",
		Short: "Submit the generated comment for one item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemSubmit(id)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Item %d is now %s\n", resp.Item.ID, resp.Item.Status)
				if resp.Item.Submission != nil && resp.Item.Submission.ResultURL != "" {
					fmt.Fprintf(stdout, "Comment: %s\n", resp.Item.Submission.ResultURL)
				}
				return nil
			})
		},
	}
}

func newItemsBoostCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "boost <id>",
		Short: "Order an engagement boost for one confirmed comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseItemID(args[0])
			if err != nil {
				return err
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.ItemBoost(id)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				fmt.Fprintf(stdout, "Item %d is now %s\n", resp.Item.ID, resp.Item.Status)
				if resp.Item.Boost != nil {
					fmt.Fprintf(stdout, "Boost order: %s (%s)\n", resp.Item.Boost.OrderRef, resp.Item.Boost.Status)
				}
				return nil
			})
		},
	}
}

func renderItem(cmd *cobra.Command, item api.Item) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader(fmt.Sprintf("Item %d", item.ID), colorize) {
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintln(stdout, renderStatusLine("Author", statusInfo, "@"+item.Author, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Video", statusInfo, item.PostURL, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Tag", statusInfo, item.Tag, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Status", itemStatusKind(item.Status), item.Status, colorize))
	if item.Description != "" {
		fmt.Fprintln(stdout, renderStatusLine("Description", statusInfo, item.Description, colorize))
	}
	fmt.Fprintln(stdout, renderStatusLine("Engagement", statusInfo, formatItemStats(item.Stats), colorize))
	if item.Relevance != nil {
		detail := fmt.Sprintf("score %d", item.Relevance.Score)
		if item.Relevance.Reason != "" {
			detail += ": " + item.Relevance.Reason
		}
		kind := statusOK
		if !item.Relevance.Relevant {
			kind = statusWarn
		}
		fmt.Fprintln(stdout, renderStatusLine("Relevance", kind, detail, colorize))
	}
	if item.Comment != "" {
		fmt.Fprintln(stdout, renderStatusLine("Comment", statusInfo, item.Comment, colorize))
	}
	if item.Submission != nil {
		detail := fmt.Sprintf("%s (ref %s)", item.Submission.Status, item.Submission.ExternalRef)
		if item.Submission.ResultURL != "" {
			detail += " " + item.Submission.ResultURL
		}
		fmt.Fprintln(stdout, renderStatusLine("Submission", statusInfo, detail, colorize))
	}
	if item.Boost != nil {
		fmt.Fprintln(stdout, renderStatusLine("Boost", statusInfo, fmt.Sprintf("%s (order %s)", item.Boost.Status, item.Boost.OrderRef), colorize))
	}
	if item.ErrorMessage != "" {
		fmt.Fprintln(stdout, renderStatusLine("Error", statusError, item.ErrorMessage, colorize))
	}
}

func buildItemRows(items []api.Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		score := ""
		if item.Relevance != nil {
			score = strconv.Itoa(item.Relevance.Score)
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			item.Author,
			item.Tag,
			item.Status,
			score,
			item.CreatedAt,
		})
	}
	return rows
}

func formatItemStats(stats api.ItemStats) string {
	return fmt.Sprintf("%d plays, %d diggs, %d comments, %d shares",
		stats.Plays, stats.Diggs, stats.Comments, stats.Shares)
}

func itemStatusKind(status string) statusKind {
	switch status {
	case "completed", "confirmed", "boosted":
		return statusOK
	case "failed":
		return statusError
	case "skipped":
		return statusWarn
	default:
		return statusInfo
	}
}

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}
