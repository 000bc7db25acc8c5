package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSnapshotCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save or restore a compressed snapshot of the data directory",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "save <file>",
		Short: "Write every collection in the data directory to a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(v.GetString("log-level"))
			db, err := openDatabase(v, logger)
			if err != nil {
				return err
			}
			if err := db.SaveSnapshot(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d collections to %s\n", len(db.Collections()), args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "load <file>",
		Short: "Replace the collections named in a snapshot file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(v.GetString("log-level"))
			db, err := openDatabase(v, logger)
			if err != nil {
				return err
			}
			if err := db.LoadSnapshot(args[0]); err != nil {
				return err
			}
			if err := db.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "restored %s into %s\n", args[0], db.Config().DataDir)
			return nil
		},
	})
	return cmd
}
