package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/builtin"
	"github.com/effective-security/toolpilot/callbacks"
	"github.com/effective-security/toolpilot/hub"
	"github.com/effective-security/toolpilot/router"
	"github.com/effective-security/toolpilot/tools"
	"github.com/spf13/cobra"
)

type echoRequest struct {
	Text string `json:"text" jsonschema:"description=Text to echo" validate:"required"`
}

type echoResult struct {
	Text string `json:"text" yaml:"text"`
}

type wordCountRequest struct {
	Text string `json:"text" jsonschema:"description=Text to count words in"`
}

type wordCountResult struct {
	Words int `json:"words" yaml:"words"`
	Lines int `json:"lines" yaml:"lines"`
}

// newBuiltins returns the tools served by the CLI process.
func newBuiltins() (*builtin.Registry, error) {
	return builtin.NewRegistry(
		builtin.MustTool("echo", "Returns the text", func(_ context.Context, in *echoRequest) (*echoResult, error) {
			return &echoResult{Text: in.Text}, nil
		}),
		builtin.MustTool("word_count", "Counts words and lines of the text", func(_ context.Context, in *wordCountRequest) (*wordCountResult, error) {
			res := &wordCountResult{Words: len(strings.Fields(in.Text))}
			if in.Text != "" {
				res.Lines = strings.Count(in.Text, "\n") + 1
			}
			return res, nil
		}),
	)
}

func execCmd(a *app) *cobra.Command {
	var (
		params    map[string]string
		paramsJS  string
		messageID string
		timeout   time.Duration
		verbose   bool
		stats     bool
	)
	cmd := &cobra.Command{
		Use:   "exec <tool id>",
		Short: "Execute a catalog tool through the execution router",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := a.loadCatalog(); err != nil {
				return err
			}
			tool := a.catalog.ByID(args[0])
			if tool == nil {
				return errors.Errorf("tool %q not found in catalog", args[0])
			}

			parameters := map[string]any{}
			if paramsJS != "" {
				if err := json.Unmarshal([]byte(paramsJS), &parameters); err != nil {
					return errors.Wrap(err, "invalid --json parameters")
				}
			}
			for k, v := range params {
				parameters[k] = v
			}

			reg, err := newBuiltins()
			if err != nil {
				return err
			}

			st := callbacks.NewStats()
			cb := callbacks.NewFanout(st, callbacks.NewPackageLogger(logger))
			if verbose {
				cb.Add(callbacks.NewPrinter(cmd.ErrOrStderr(), callbacks.ModeVerbose))
			}

			r := router.New(reg, hub.New(), a.cfg.RouterOptions(router.WithCallback(cb))...)
			defer r.Shutdown()

			res := r.Execute(cmd.Context(), &router.ExecutionRequest{
				Tool:       tool,
				Parameters: parameters,
				Context: router.ExecutionContext{
					MessageID: messageID,
					Timeout:   timeout,
				},
			})

			out := cmd.OutOrStdout()
			if err = printYAML(out, res); err != nil {
				return err
			}
			if stats {
				st.Print(out)
				if err = printYAML(out, st.Usage([]*tools.Tool{tool})); err != nil {
					return err
				}
			}
			if !res.Success {
				return res.Error
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringToStringVar(&params, "param", nil, "tool parameter as key=value")
	flags.StringVar(&paramsJS, "json", "", "tool parameters as a JSON object")
	flags.StringVar(&messageID, "message-id", "", "message ID of the request")
	flags.DurationVar(&timeout, "timeout", 0, "execution timeout")
	flags.BoolVar(&verbose, "verbose", false, "print execution events")
	flags.BoolVar(&stats, "stats", false, "print execution statistics")
	return cmd
}
