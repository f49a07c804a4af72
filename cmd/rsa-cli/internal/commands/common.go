package commands

import (
	"github.com/mr-shifu/textbook-rsa/pkg/config"
	"github.com/mr-shifu/textbook-rsa/pkg/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func loadSettings(cmd *cobra.Command) (*config.Settings, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, errors.WithMessage(err, "invalid config flag")
	}
	return config.Load(path)
}

func setupLogger(settings *config.Settings) (logger.Logger, error) {
	log, err := logger.NewLogger(&settings.Logger)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to initialize logger")
	}
	return log, nil
}
