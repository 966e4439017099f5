package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	cmd, err := NewCommand(os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// NewCommand creates the sleigh command and its sub-commands. Results are
// written to out and logs to logOut.
func NewCommand(out, logOut io.Writer) (*cobra.Command, error) {
	base := &cobra.Command{
		Use:   "sleigh",
		Short: "Commands for inspecting sleigh record stores",
	}

	// List of available sub-commands
	// If a new sub-command is created, it must be added here
	builders := []func(out, logOut io.Writer) (*cobra.Command, error){
		newBucketsCommand,
		newDumpCommand,
		newGetCommand,
		newStatsCommand,
		newNextIDCommand,
	}
	for _, build := range builders {
		cmd, err := build(out, logOut)
		if err != nil {
			return nil, err
		}
		base.AddCommand(cmd)
	}

	return base, nil
}
