package main

import (
	"github.com/edusight/backend/storage/database"
)

func (cli *commandLine) initDB() error {
	if err := database.InitSchema(cli.db); err != nil {
		return err
	}
	logger.Print("database schema is up to date")
	return nil
}
