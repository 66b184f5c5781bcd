package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fsfront/internal/prof"
)

// setupProfiling enables the profilers named by the persistent flags. The
// cleanup is safe to call multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = pf.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = pf.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = pf.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return func() {}, nil
	}
	p, err := prof.Start(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return func() {
		if err := p.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}

// startCommand resolves the root flags and starts tracing and profiling.
func startCommand(cmd *cobra.Command) (settings, func(), error) {
	s, err := readSettings(cmd)
	if err != nil {
		return s, nil, err
	}
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return s, nil, err
	}
	stopTracing, err := setupTracing(cmd)
	if err != nil {
		stopProfiling()
		return s, nil, err
	}
	return s, func() {
		stopTracing()
		stopProfiling()
	}, nil
}
