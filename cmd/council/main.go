package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/parallax-systems/council/pkg/adapter"
	"github.com/parallax-systems/council/pkg/config"
	"github.com/parallax-systems/council/pkg/dispatch"
	"github.com/parallax-systems/council/pkg/pricing"
	"github.com/parallax-systems/council/pkg/router"
)

var configFile string

func main() {
	rootCmd := &cobra.Command{
		Use:   "council",
		Short: "Value-aware LLM routing with multi-model councils and judged selection",
		Long: `Council routes generation tasks to the most appropriate LLM by task
	type and estimated lead value. High-stakes tasks fan out to a council of
	models whose responses are ranked by a judge model; every outcome is
	recorded to an append-only performance ledger.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to routing config file")

	rootCmd.AddCommand(submitCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(modelsCmd())
	rootCmd.AddCommand(pricingCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadWithRoutingFile(configFile)
	}
	return config.Load()
}

func submitCmd() *cobra.Command {
	var taskType string
	var estimatedValue float64
	var correlationID string
	var temperature float64
	var maxTokens int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "submit [prompt]",
		Short: "Submit a task and print the winning response",
		Long: `Routes the prompt by task type and estimated value, executes the
	resulting plan (fanning out to a council for judged task types), and
	prints the winning response with its cost and latency.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			svc, err := dispatch.Build(cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			resp, err := svc.Submit(context.Background(), dispatch.Request{
				TaskType:      taskType,
				Prompt:        args[0],
				Context:       router.Context{EstimatedValue: estimatedValue},
				CorrelationID: correlationID,
				Params:        adapterParams(temperature, maxTokens),
			})
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}

			fmt.Fprintf(os.Stderr, "model=%s cost=$%.6f total=$%.6f latency=%dms\n",
				resp.Model, resp.Cost, resp.TotalCost, resp.LatencyMs)
			if resp.Verdict != nil {
				fmt.Fprintf(os.Stderr, "verdict: winner=%d rationale=%s\n",
					resp.Verdict.WinnerIndex, resp.Verdict.Rationale)
			}
			fmt.Println(resp.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&taskType, "task", "classification", "task type to route")
	cmd.Flags().Float64Var(&estimatedValue, "value", 0, "estimated lead value for tiered routing")
	cmd.Flags().StringVar(&correlationID, "correlation-id", "", "caller correlation id recorded in the ledger")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().IntVar(&maxTokens, "max-tokens", 0, "max completion tokens")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the full response as JSON")

	return cmd
}

func adapterParams(temperature float64, maxTokens int) adapter.Params {
	return adapter.Params{Temperature: temperature, MaxTokens: maxTokens}
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show current routing rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			rules, err := router.Compile(cfg.Routing)
			if err != nil {
				return err
			}
			r := router.New(rules)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK TYPE\tMODE\tMODELS\tJUDGE\tFALLBACK")
			for _, info := range r.Routes() {
				judgeModel := info.JudgeModel
				if judgeModel == "" {
					judgeModel = "-"
				}
				fallback := info.Fallback
				if fallback == "" {
					fallback = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					info.TaskType, info.Mode, strings.Join(info.Models, ", "), judgeModel, fallback)
			}
			return w.Flush()
		},
	}
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List adapters and their models",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tSTATUS")
			for _, provider := range []string{"anthropic", "google", "openai", "openrouter"} {
				status := "no key"
				if cfg.HasAdapter(provider) {
					status = "ready"
				}
				fmt.Fprintf(w, "%s\t%s\n", provider, status)
			}
			fmt.Fprintln(w)

			aliases := config.NewModelAliases(cfg.Routing.Aliases)
			fmt.Fprintln(w, "ALIAS\tMODEL")
			for _, alias := range aliases.List() {
				fmt.Fprintf(w, "%s\t%s\n", alias, aliases.Resolve(alias))
			}
			return w.Flush()
		},
	}
}

func pricingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pricing",
		Short: "Show the model pricing table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			table, err := pricing.NewTable(cfg.Routing.Pricing)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tUSD PER 1M TOKENS")
			for _, model := range table.Models() {
				price, _ := table.PerMillion(model)
				fmt.Fprintf(w, "%s\t%.2f\n", model, price)
			}
			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate routing rules, pricing, and adapter coverage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			svc, err := dispatch.Build(cfg)
			if err != nil {
				return err
			}
			defer svc.Close()

			fmt.Println("configuration valid")
			return nil
		},
	}
}
