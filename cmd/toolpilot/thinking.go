package main

import (
	"strings"

	"github.com/effective-security/toolpilot/thinking"
	"github.com/spf13/cobra"
)

type analysisOutput struct {
	Analysis *thinking.TaskAnalysis       `yaml:"analysis"`
	Moderate []thinking.Capability        `yaml:"moderate,omitempty"`
	Advanced []thinking.Capability        `yaml:"advanced,omitempty"`
	Plan     []*thinking.CapabilityConfig `yaml:"plan,omitempty"`
}

func analyzeCmd(a *app) *cobra.Command {
	var (
		tc   thinking.TaskContext
		plan bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <task description>",
		Short: "Classify a task and select reasoning capabilities",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := thinking.New(a.cfg.ClassifierOptions()...)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			analysis := c.AnalyzeTask(ctx, strings.Join(args, " "), &tc)
			out := analysisOutput{
				Analysis: analysis,
				Moderate: c.ModerateTier(analysis),
				Advanced: c.AdvancedTier(analysis),
			}
			if plan {
				out.Plan = c.CreateExecutionPlan(ctx, analysis.RequiredThinking)
			}
			return printYAML(cmd.OutOrStdout(), out)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&tc.FileCount, "files", 0, "number of files involved")
	flags.StringVar(&tc.ProjectSize, "project-size", "", "project size: small, medium or large")
	flags.BoolVar(&plan, "plan", false, "include the execution plan")
	return cmd
}

func planCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <capability>...",
		Short: "Order capabilities by priority and prerequisites",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := thinking.New(a.cfg.ClassifierOptions()...)
			if err != nil {
				return err
			}
			caps := make([]thinking.Capability, len(args))
			for i, s := range args {
				caps[i] = thinking.Capability(s)
			}
			return printYAML(cmd.OutOrStdout(), c.CreateExecutionPlan(cmd.Context(), caps))
		},
	}
}
