package main

import (
	"fmt"
	"strconv"

	"github.com/kittclouds/telling/internal/store"
	"github.com/kittclouds/telling/pkg/narrate"
	"github.com/kittclouds/telling/pkg/spin"
	"github.com/kittclouds/telling/pkg/style"
	"github.com/kittclouds/telling/pkg/world"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	storyPath string
	spinPath  string
	profile   string
	sessionID string
	restart   bool
	strict    bool
	orderFlag string
	timeFlag  string
	focalizer string
)

// narrateCmd tells the actions of one turn
var narrateCmd = &cobra.Command{
	Use:   "narrate [action ids...]",
	Short: "Narrate actions of a story file",
	Long: `Narrates the given actions, or the story's "tell" list when no ids are
given. With --db and --session the discourse (what has already been
introduced and told) carries over between runs.

Example:
  telling narrate --story cellar.yaml --time after --order retrograde`,
	RunE: runNarrate,
}

func init() {
	narrateCmd.Flags().StringVarP(&storyPath, "story", "s", "", "Story file (YAML)")
	narrateCmd.Flags().StringVar(&spinPath, "spin", "", "Spin profile (YAML)")
	narrateCmd.Flags().StringVar(&profile, "profile", "", "Named spin profile from --profiles")
	narrateCmd.MarkFlagsMutuallyExclusive("spin", "profile")
	narrateCmd.Flags().StringVar(&sessionID, "session", "", "Session to continue")
	narrateCmd.Flags().BoolVar(&restart, "restart", false, "Forget the session's discourse before telling")
	narrateCmd.Flags().BoolVar(&strict, "strict", false, "Fail on template authoring errors")
	narrateCmd.Flags().StringVar(&orderFlag, "order", "", "Override order: chronicle, retrograde, achrony, analepsis, syllepsis")
	narrateCmd.Flags().StringVar(&timeFlag, "time", "", "Override time of narrating: before, during, after")
	narrateCmd.Flags().StringVar(&focalizer, "focalizer", "", "Override the focalizer tag")
	_ = narrateCmd.MarkFlagRequired("story")
}

func runNarrate(cmd *cobra.Command, args []string) error {
	data, err := readHostFile(storyPath)
	if err != nil {
		return fmt.Errorf("read story: %w", err)
	}
	story, err := world.LoadStory(data)
	if err != nil {
		return err
	}

	reg := style.NewRegistry()
	s, err := loadSpin(reg)
	if err != nil {
		return err
	}

	ids := story.Tell
	if len(args) > 0 {
		ids = ids[:0:0]
		for _, a := range args {
			id, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("action id %q: %w", a, err)
			}
			ids = append(ids, id)
		}
	}

	teller := narrate.New(narrate.Config{Logger: logger, Strict: strict, Registry: reg})

	var st store.Storer
	if sessionID != "" {
		st, err = openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		if err := teller.LoadOrCreate(st, sessionID, storyPath); err != nil {
			return err
		}
		if restart {
			teller.Restart()
		}
	}

	text, err := teller.Tell(ids, story.Model, s)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if st != nil {
		if err := teller.Save(st, sessionID); err != nil {
			return err
		}
	}
	logger.Debug("narrated", zap.Ints("ids", ids), zap.String("session", sessionID))
	return nil
}

// loadSpin reads the profile, if any, and applies flag overrides
func loadSpin(reg *style.Registry) (spin.Spin, error) {
	s := spin.Default()
	switch {
	case spinPath != "":
		fsys, name, err := hostPath(spinPath)
		if err != nil {
			return s, err
		}
		if s, err = spin.LoadProfile(fsys, name, reg); err != nil {
			return s, err
		}
	case profile != "":
		profiles, err := openProfiles(profilesDir, reg)
		if err != nil {
			return s, err
		}
		if s, err = profiles.Load(profile); err != nil {
			return s, err
		}
	}
	if orderFlag != "" {
		o, err := spin.ParseOrder(orderFlag)
		if err != nil {
			return s, err
		}
		s.Order = o
	}
	if timeFlag != "" {
		t, err := spin.ParseTime(timeFlag)
		if err != nil {
			return s, err
		}
		s.Time = t
	}
	if focalizer != "" {
		s.Focalizer = world.Tag(focalizer)
	}
	return s, s.Validate()
}

func openStore() (store.Storer, error) {
	if dbPath == "" {
		return store.NewSQLiteStore()
	}
	return store.NewSQLiteStoreWithDSN(dbPath)
}
