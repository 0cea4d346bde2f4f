// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pages/pkg/types"
)

// bindFlags lets the config file and DOC2PAGES_* environment variables
// supply values for flags not given on the command line.
func bindFlags(fs *pflag.FlagSet, names ...string) {
	for _, name := range names {
		if err := viper.BindPFlag(name, fs.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// buildConfig resolves every run parameter once. The result is never
// modified afterwards. An empty historyPath disables publish history.
func buildConfig(docPath, repoArg, historyPath string) (types.Config, error) {
	repo, err := types.ParseRepoSpec(repoArg)
	if err != nil {
		return types.Config{}, err
	}

	hubConfig := viper.GetString("hub-config")
	if hubConfig == "" {
		if home, err := os.UserHomeDir(); err == nil {
			hubConfig = filepath.Join(home, ".config", "hub")
		}
	}

	cfg := types.Config{
		DocPath: docPath,
		Repo:    repo,
		Classifier: types.ClassifierConfig{
			Threshold: viper.GetInt("pdf-threshold"),
			MinRate:   viper.GetFloat64("pdf-rate"),
			Force:     viper.GetBool("pdf-force"),
		},
		Publish: types.PublishConfig{
			Public:        viper.GetBool("public"),
			AskpassPath:   viper.GetString("askpass-path"),
			HubConfigPath: hubConfig,
			Branch:        viper.GetString("branch"),
			CommitMessage: viper.GetString("commit-message"),
		},
		WorkDir:     viper.GetString("work-dir"),
		KeepOutput:  viper.GetBool("keep-output"),
		HistoryPath: historyPath,
	}.WithDefaults()

	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
