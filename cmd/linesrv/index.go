package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linesrv/linesrv/store"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index <corpus>",
		Short: "Build or refresh the line index cache for a corpus file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]

			st, err := store.OpenFileCached(path)
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Printf("%s: %d lines, index cache at %s\n", path, st.LineCount(), store.CachePath(path))
			return nil
		},
	}
}
