package main

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/scoring"
	"github.com/effective-security/toolpilot/search"
	"github.com/effective-security/toolpilot/tools"
	"github.com/spf13/cobra"
)

type scoredTool struct {
	ID      string           `yaml:"id"`
	Name    string           `yaml:"name"`
	Score   float64          `yaml:"score"`
	Factors []scoring.Factor `yaml:"factors,omitempty"`
}

type toolRef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

func refs(list []*tools.Tool) []toolRef {
	res := make([]toolRef, len(list))
	for i, t := range list {
		res[i] = toolRef{ID: t.ID, Name: t.Name}
	}
	return res
}

func searchCmd(a *app) *cobra.Command {
	var (
		category string
		tags     []string
		limit    int
		scores   bool
	)
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the tool catalog",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.loadCatalog()
			if err != nil {
				return err
			}

			s := search.New(a.cfg.SearchOptions()...)
			defer s.Close()

			var q string
			if len(args) > 0 {
				q = args[0]
			}
			ctx := cmd.Context()
			opts := &search.Options{MaxResults: limit}
			out := cmd.OutOrStdout()

			switch {
			case len(tags) > 0:
				return printYAML(out, refs(s.SearchByTags(ctx, tags, list, opts)))
			case category != "":
				return printYAML(out, refs(s.SearchInCategory(ctx, q, category, list, opts)))
			case scores:
				results := s.SearchWithScores(ctx, q, list, opts)
				res := make([]scoredTool, len(results))
				for i, r := range results {
					res[i] = scoredTool{ID: r.Tool.ID, Name: r.Tool.Name, Score: r.Score, Factors: r.Factors}
				}
				return printYAML(out, res)
			default:
				return printYAML(out, refs(s.Search(ctx, q, list, opts)))
			}
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&category, "category", "", "restrict results to the category")
	flags.StringSliceVar(&tags, "tags", nil, "search by tags instead of text")
	flags.IntVar(&limit, "limit", 0, "maximum number of results")
	flags.BoolVar(&scores, "scores", false, "include scores and match factors")
	return cmd
}

func similarCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "similar <tool id>",
		Short: "Find tools similar to a catalog tool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.loadCatalog()
			if err != nil {
				return err
			}
			tool := a.catalog.ByID(args[0])
			if tool == nil {
				return errors.Errorf("tool %q not found in catalog", args[0])
			}

			s := search.New(a.cfg.SearchOptions()...)
			defer s.Close()

			res := s.FindSimilar(cmd.Context(), tool, list, &search.Options{MaxResults: limit})
			return printYAML(cmd.OutOrStdout(), refs(res))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of results")
	return cmd
}

func suggestCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Suggest tool names and tags for a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.loadCatalog()
			if err != nil {
				return err
			}
			s := search.New(a.cfg.SearchOptions()...)
			defer s.Close()

			return printYAML(cmd.OutOrStdout(), s.Suggest(args[0], list, limit))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of suggestions")
	return cmd
}

func rankCmd(a *app) *cobra.Command {
	var (
		rc      tools.RequestContext
		project tools.ProjectContext
		top     int
		factors bool
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank the catalog tools by relevance to the context",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.loadCatalog()
			if err != nil {
				return err
			}
			opts, err := a.cfg.ScorerOptions()
			if err != nil {
				return err
			}
			if project.Type != "" || project.Language != "" || project.Framework != "" ||
				project.CurrentFile != "" || len(project.Dependencies) > 0 {
				rc.Project = &project
			}

			ranked := scoring.NewScorer(opts...).Rank(cmd.Context(), list, &rc)
			if top > 0 && len(ranked) > top {
				ranked = ranked[:top]
			}
			res := make([]scoredTool, len(ranked))
			for i, r := range ranked {
				res[i] = scoredTool{ID: r.Tool.ID, Name: r.Tool.Name, Score: r.Score}
				if factors {
					res[i].Factors = r.Factors
				}
			}
			return printYAML(cmd.OutOrStdout(), res)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&rc.SubjectMode, "mode", "", "subject mode, such as programming or research")
	flags.StringVar(&rc.Query, "query", "", "the user query")
	flags.StringVar(&project.Type, "project-type", "", "project type")
	flags.StringVar(&project.Language, "language", "", "project language")
	flags.StringVar(&project.Framework, "framework", "", "project framework")
	flags.StringSliceVar(&project.Dependencies, "deps", nil, "project dependencies")
	flags.StringVar(&project.CurrentFile, "file", "", "file being edited")
	flags.IntVar(&top, "top", 0, "maximum number of tools")
	flags.BoolVar(&factors, "factors", false, "include score factors")
	return cmd
}
