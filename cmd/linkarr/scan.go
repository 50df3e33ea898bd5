package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newScanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scan <profile>",
		Short: "Run a single scan for one profile and exit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args[0])
		},
	}
}

func runScan(name string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	profile, err := a.store.Get(name)
	if err != nil {
		return err
	}

	if err := a.scanCtrl.Run(context.Background(), profile, nil); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	for _, snap := range a.scanCtrl.Snapshots() {
		if snap.Profile != name {
			continue
		}
		fmt.Printf("processed %d files: %d succeeded, %d failed, %d skipped\n",
			snap.Completed, snap.Succeeded, snap.Failed, snap.Skipped)
	}
	return nil
}
