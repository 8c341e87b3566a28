package main

import (
	"encoding/json"
	"fmt"

	"github.com/kittclouds/telling/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// sessionsCmd groups session management
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Manage narration sessions",
}

var sessionsNewCmd = &cobra.Command{
	Use:   "new [story]",
	Short: "Create a session and print its id",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		story := ""
		if len(args) == 1 {
			story = args[0]
		}
		session := store.NewSession(story)
		if err := st.CreateSession(session); err != nil {
			return err
		}
		logger.Info("created session", zap.String("session", session.ID))
		fmt.Fprintln(cmd.OutOrStdout(), session.ID)
		return nil
	},
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		sessions, err := st.ListSessions()
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(sessions)
	},
}
