// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/doc2pages/internal/classify"
	"github.com/pdiddy/doc2pages/internal/command"
	"github.com/pdiddy/doc2pages/internal/convert"
	"github.com/pdiddy/doc2pages/internal/credentials"
	"github.com/pdiddy/doc2pages/internal/history"
	"github.com/pdiddy/doc2pages/internal/pipeline"
	"github.com/pdiddy/doc2pages/internal/publish"
)

func runPublish(cmd *cobra.Command, args []string) error {
	historyPath, err := resolveHistoryPath(cmd)
	if err != nil {
		return err
	}
	cfg, err := buildConfig(args[0], args[1], historyPath)
	if err != nil {
		return err
	}

	runner := command.NewRunner()
	p := &pipeline.Pipeline{
		Runner: runner,
		Credentials: credentials.Resolver{
			SecretsDir: viper.GetString("secrets-dir"),
			Password:   viper.GetString("password"),
			Reader:     credentials.NewTerminalReader(),
		},
		Classifier:  classify.New(classify.NewPDFSource(logger), logger),
		Converter:   convert.NewEbookConverter(runner, logger, os.Stdout, os.Stderr),
		Publisher:   publish.New(runner, logger, os.Stdout, os.Stderr),
		OpenHistory: openHistoryStore,
		Logger:      logger,
		Out:         os.Stdout,
	}

	_, err = p.Run(cmd.Context(), cfg)
	return err
}

// openHistoryStore is the pipeline's history opener. The database is only
// created once the run gets past the requirement check.
func openHistoryStore(path string) (pipeline.HistoryStore, error) {
	store, err := history.Open(path)
	if err != nil {
		return nil, err
	}
	return store, nil
}
