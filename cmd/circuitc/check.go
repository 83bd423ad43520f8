package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orizon-lang/circuitc/internal/asg"
	"github.com/orizon-lang/circuitc/internal/diagnostics"
	cerrors "github.com/orizon-lang/circuitc/internal/errors"
	"github.com/orizon-lang/circuitc/internal/manifest"
	"github.com/orizon-lang/circuitc/internal/network"
	"github.com/orizon-lang/circuitc/internal/passes"
)

// errCheckFailed is returned when a program has diagnostics. They have
// already been printed.
var errCheckFailed = errors.New("check failed")

type checkOptions struct {
	root        *rootOptions
	network     string
	networkFile string
	watch       bool
	noColor     bool
	sorted      bool
}

func newCheckCommand(root *rootOptions) *cobra.Command {
	opts := &checkOptions{root: root}

	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Run the semantic passes over program manifests",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.network, "network", network.DefaultName, "Built-in network profile to check against.")
	cmd.Flags().StringVar(&opts.networkFile, "network-file", "", "TOML file with a custom network profile.")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Re-check files whenever they change.")
	cmd.Flags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output.")
	cmd.Flags().BoolVar(&opts.sorted, "sort", false, "Print diagnostics by source location instead of the order passes reported them.")
	return cmd
}

func (o *checkOptions) profile() (network.Profile, error) {
	if o.networkFile != "" {
		return network.LoadFile(o.networkFile)
	}
	return network.Lookup(o.network)
}

// checker compiles files against one profile and prints the results.
type checker struct {
	out      io.Writer
	profile  network.Profile
	loader   *manifest.Loader
	logger   *zap.Logger
	colorize bool
	sorted   bool
}

func runCheck(cmd *cobra.Command, opts *checkOptions, files []string) error {
	profile, err := opts.profile()
	if err != nil {
		return err
	}

	c := &checker{
		out:      cmd.OutOrStdout(),
		profile:  profile,
		loader:   manifest.NewLoader(asg.DefaultAnnotationRegistry()),
		logger:   opts.root.logger,
		colorize: !opts.noColor && !color.NoColor,
		sorted:   opts.sorted,
	}
	c.logger.Info("checking", zap.Strings("files", files), zap.String("network", profile.Name))

	failed := false
	for _, file := range files {
		ok, err := c.checkFile(file)
		if err != nil {
			return err
		}
		failed = failed || !ok
	}

	if opts.watch {
		return watchFiles(cmd.Context(), c.logger, files, func(file string) {
			if _, err := c.checkFile(file); err != nil {
				fmt.Fprintln(c.out, "Error:", err)
			}
		})
	}
	if failed {
		return errCheckFailed
	}
	return nil
}

// checkFile runs the pipeline over one manifest. It reports false when the
// program has diagnostics; errors are reserved for files that cannot be
// read or parsed as YAML.
func (c *checker) checkFile(file string) (bool, error) {
	renderer := diagnostics.NewRenderer(c.out, c.colorize)
	handler := diagnostics.NewHandler()

	program, source, err := c.loader.LoadFile(file)
	if source != nil {
		renderer.AddSource(source)
	}
	if err != nil {
		if ce, ok := err.(*cerrors.CompilerError); ok {
			handler.Emit(ce)
			return false, c.render(renderer, handler)
		}
		var merr *manifest.Error
		if errors.As(err, &merr) {
			fmt.Fprintln(c.out, "error:", merr.Error())
			return false, nil
		}
		return false, err
	}

	_, stats, err := passes.DefaultPipeline(c.logger, c.profile).Run(handler, program)
	for _, s := range stats {
		c.logger.Debug("pass stats", zap.String("file", file), zap.Stringer("stats", s))
	}
	if err != nil && handler.Fatal() == nil {
		return false, err
	}

	if !handler.HasErrors() {
		fmt.Fprintf(c.out, "%s: ok (%s)\n", filepath.Base(file), c.profile.Name)
		return true, nil
	}
	return false, c.render(renderer, handler)
}

func (c *checker) render(r *diagnostics.Renderer, h *diagnostics.Handler) error {
	if c.sorted {
		return r.RenderSorted(h)
	}
	return r.RenderAll(h)
}
