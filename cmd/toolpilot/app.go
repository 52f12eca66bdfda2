package main

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/config"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "cmd")

type app struct {
	configFile  string
	catalogFile string
	debug       bool

	cfg     *config.Config
	catalog *tools.Catalog
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:          "toolpilot",
		Short:        "Tool discovery, relevance ranking and execution routing",
		SilenceUsage: true,
	}
	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return a.init(cmd.ErrOrStderr())
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "configuration file")
	flags.StringVar(&a.catalogFile, "catalog", "", "tool catalog file, overrides the configuration")
	flags.BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		analyzeCmd(a),
		planCmd(a),
		searchCmd(a),
		similarCmd(a),
		suggestCmd(a),
		rankCmd(a),
		execCmd(a),
	)
	return root
}

func (a *app) init(logOut io.Writer) error {
	xlog.SetFormatter(xlog.NewStringFormatter(logOut))
	if a.debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.WARNING)
	}

	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if a.catalogFile != "" {
		cfg.Catalog = a.catalogFile
	}
	a.cfg = cfg
	return nil
}

// loadCatalog returns the tools of the configured catalog.
func (a *app) loadCatalog() ([]*tools.Tool, error) {
	if a.catalog != nil {
		return a.catalog.Tools, nil
	}
	if a.cfg.Catalog == "" {
		return nil, errors.New("tool catalog is not specified, use --catalog or the catalog config")
	}
	c, err := tools.LoadCatalog(a.cfg.Catalog)
	if err != nil {
		return nil, err
	}
	logger.KV(xlog.DEBUG, "status", "catalog_loaded", "file", a.cfg.Catalog, "tools", len(c.Tools))
	a.catalog = c
	return c.Tools, nil
}

func printYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(enc.Close())
}
