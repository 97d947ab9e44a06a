package main

import (
	"github.com/openfeed-lab/backend/migration"
	"github.com/urfave/cli/v2"
)

func (s *srv) startMigrate(cliCtx *cli.Context) error {
	if err := s.loadConfig(cliCtx); err != nil {
		return err
	}

	s.loadLogger()
	if err := s.loadDatabase(); err != nil {
		return err
	}

	return migration.Migrate(s.ctx)
}
