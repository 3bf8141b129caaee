package main

import (
	"context"

	"github.com/edusight/backend/core/user"
)

func (cli *commandLine) addUser(name, email, role string) error {
	data := user.NewUser{Name: name, Email: email, Role: role}
	if err := data.Validate(cli.usrSvc); err != nil {
		return err
	}

	usr, err := cli.usrSvc.Create(context.Background(), data)
	if err != nil {
		return err
	}
	logger.Printf("created %s user %s (%s)", usr.Role, usr.Name, usr.ID)
	return nil
}
