package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ripple/internal/api"
	"ripple/internal/ipc"
)

func newTargetCommand(ctx *commandContext) *cobra.Command {
	targetCmd := &cobra.Command{
		Use:   "target",
		Short: "Manage monitored discovery targets",
	}

	var addTag string
	addCmd := &cobra.Command{
		Use:   "add <username|hashtag> <value>",
		Short: "Register a profile or hashtag to monitor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TargetAdd(args[0], args[1], strings.TrimSpace(addTag))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Target %d added: %s %s (tag %s)\n",
					resp.Target.ID, resp.Target.Type, resp.Target.Value, resp.Target.Tag)
				return nil
			})
		},
	}
	addCmd.Flags().StringVar(&addTag, "tag", "", "Workflow tag for items discovered from this target")

	var listTag string
	var listJSON bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List monitored targets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TargetList(strings.TrimSpace(listTag))
				if err != nil {
					return err
				}
				if listJSON {
					return writeJSON(cmd, resp.Targets)
				}
				stdout := cmd.OutOrStdout()
				if len(resp.Targets) == 0 {
					fmt.Fprintln(stdout, "No targets configured")
					return nil
				}
				fmt.Fprint(stdout, renderTable(
					[]string{"ID", "Type", "Value", "Tag", "Created"},
					buildTargetRows(resp.Targets),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintln(stdout)
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only list targets with this workflow tag")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Emit targets as JSON")

	removeCmd := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a monitored target",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("invalid target id %q", args[0])
			}
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.TargetRemove(id)
				if err != nil {
					return err
				}
				stdout := cmd.OutOrStdout()
				if !resp.Removed {
					fmt.Fprintf(stdout, "Target %d not found\n", id)
					return nil
				}
				fmt.Fprintf(stdout, "Target %d removed\n", id)
				return nil
			})
		},
	}

	targetCmd.AddCommand(addCmd, listCmd, removeCmd)
	return targetCmd
}

func newBrandCommand(ctx *commandContext) *cobra.Command {
	brandCmd := &cobra.Command{
		Use:   "brand",
		Short: "Manage the shared brand profile",
	}

	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the brand profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.BrandShow()
				if err != nil {
					return err
				}
				if showJSON {
					return writeJSON(cmd, resp.Profile)
				}
				renderBrandProfile(cmd, resp.Profile)
				return nil
			})
		},
	}
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Emit the profile as JSON")

	var profile api.BrandProfile
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the brand profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(profile.ProductName) == "" {
				return fmt.Errorf("--product-name is required")
			}
			if strings.TrimSpace(profile.ProductDescription) == "" {
				return fmt.Errorf("--product-description is required")
			}
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.BrandSet(profile); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Brand profile saved")
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&profile.ProductName, "product-name", "", "Product name")
	setCmd.Flags().StringVar(&profile.ProductDescription, "product-description", "", "Product description")
	setCmd.Flags().StringVar(&profile.TargetAudience, "audience", "", "Target audience")
	setCmd.Flags().StringVar(&profile.Persona, "persona", "", "Voice persona for generated comments")
	setCmd.Flags().StringVar(&profile.UGCAccountID, "ugc-account", "", "Posting account identifier")

	brandCmd.AddCommand(showCmd, setCmd)
	return brandCmd
}

func newPromptsCommand(ctx *commandContext) *cobra.Command {
	promptsCmd := &cobra.Command{
		Use:   "prompts",
		Short: "Manage per-tag prompt overrides",
	}

	var showTag string
	var showJSON bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the prompt set for one workflow tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				resp, err := client.PromptsShow(strings.TrimSpace(showTag))
				if err != nil {
					return err
				}
				if showJSON {
					return writeJSON(cmd, resp.Prompts)
				}
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)
				for _, line := range renderSectionHeader("Prompts: "+resp.Prompts.Tag, colorize) {
					fmt.Fprintln(stdout, line)
				}
				fmt.Fprintln(stdout, renderStatusLine("Relevancy", promptKind(resp.Prompts.RelevancyText), promptSummary(resp.Prompts.RelevancyText), colorize))
				fmt.Fprintln(stdout, renderStatusLine("Comment", promptKind(resp.Prompts.CommentText), promptSummary(resp.Prompts.CommentText), colorize))
				return nil
			})
		},
	}
	showCmd.Flags().StringVar(&showTag, "tag", "", "Workflow tag")
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Emit the prompt set as JSON")

	var prompts api.PromptSet
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Replace the prompt set for one workflow tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withClient(func(client *ipc.Client) error {
				if _, err := client.PromptsSet(prompts); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Prompts saved for tag %s\n", prompts.Tag)
				return nil
			})
		},
	}
	setCmd.Flags().StringVar(&prompts.Tag, "tag", "", "Workflow tag")
	setCmd.Flags().StringVar(&prompts.RelevancyText, "relevancy", "", "Relevancy scoring prompt text")
	setCmd.Flags().StringVar(&prompts.CommentText, "comment", "", "Comment generation prompt text")

	promptsCmd.AddCommand(showCmd, setCmd)
	return promptsCmd
}

func renderBrandProfile(cmd *cobra.Command, profile api.BrandProfile) {
	stdout := cmd.OutOrStdout()
	colorize := shouldColorize(stdout)

	for _, line := range renderSectionHeader("Brand Profile", colorize) {
		fmt.Fprintln(stdout, line)
	}
	if strings.TrimSpace(profile.ProductName) == "" {
		fmt.Fprintln(stdout, renderStatusLine("Product", statusWarn, "not configured", colorize))
		return
	}
	fmt.Fprintln(stdout, renderStatusLine("Product", statusOK, profile.ProductName, colorize))
	fmt.Fprintln(stdout, renderStatusLine("Description", statusInfo, profile.ProductDescription, colorize))
	if profile.TargetAudience != "" {
		fmt.Fprintln(stdout, renderStatusLine("Audience", statusInfo, profile.TargetAudience, colorize))
	}
	if profile.Persona != "" {
		fmt.Fprintln(stdout, renderStatusLine("Persona", statusInfo, profile.Persona, colorize))
	}
	if profile.UGCAccountID != "" {
		fmt.Fprintln(stdout, renderStatusLine("Posting account", statusInfo, profile.UGCAccountID, colorize))
	}
}

func buildTargetRows(targets []api.Target) [][]string {
	rows := make([][]string, 0, len(targets))
	for _, target := range targets {
		rows = append(rows, []string{
			strconv.FormatInt(target.ID, 10),
			target.Type,
			target.Value,
			target.Tag,
			target.CreatedAt,
		})
	}
	return rows
}

func promptKind(text string) statusKind {
	if strings.TrimSpace(text) == "" {
		return statusWarn
	}
	return statusOK
}

func promptSummary(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return "built-in default"
	}
	if len(text) > 60 {
		return text[:57] + "..."
	}
	return text
}
