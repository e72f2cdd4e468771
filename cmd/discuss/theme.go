package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/davidleitw/discuss/internal/db"
	"github.com/davidleitw/discuss/internal/remoteconfig"
	"github.com/davidleitw/discuss/internal/render"
)

var themeCmd = &cobra.Command{
	Use:         "theme",
	Short:       "Refresh the app theme from remote config and show it",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{"offline": "true"},
	RunE:        runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func themeSource() remoteconfig.Source {
	if cfg.RemoteConfigURL == "" {
		logrus.Debug("no remote config url, using an empty theme")
		return remoteconfig.StaticSource{}
	}
	return remoteconfig.NewHTTPSource(cfg.RemoteConfigURL, cfg.Timeout)
}

func runTheme(cmd *cobra.Command, args []string) error {
	store, err := db.Open(cfg.DbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	theme, err := remoteconfig.NewLoader(store).Initialize(cmd.Context(), themeSource())
	if err != nil {
		logrus.WithError(err).Warn("theme refresh incomplete")
	}
	render.Theme(os.Stdout, theme)
	return nil
}
