package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/edusight/backend/core/analytics"
	"github.com/edusight/backend/core/user"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	db     *sqlx.DB
	usrSvc *user.Service
	jobs   *analytics.Jobs
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  initdb - create the database schema")
	fmt.Println("  adduser -name NAME -email EMAIL -role ROLE - create a user")
	fmt.Printf("  runjob -name NAME - run an analytics job once (%s, %s, %s)\n",
		analytics.JobGradingTimeliness, analytics.JobWeeklyReports, analytics.JobDailyAlerts)
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ExitOnError)
	addUserName := addUserCmd.String("name", "", "The user's full name.")
	addUserEmail := addUserCmd.String("email", "", "The user's email address.")
	addUserRole := addUserCmd.String("role", "", "One of: "+fmt.Sprint(user.AllRoles))

	runJobCmd := flag.NewFlagSet("runjob", flag.ExitOnError)
	runJobName := runJobCmd.String("name", "", "The job to run.")

	switch args[1] {
	case "initdb":
		return cli.initDB()
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addUserName == "" || *addUserEmail == "" || *addUserRole == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, *addUserRole)
	case "runjob":
		if err := runJobCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *runJobName == "" {
			runJobCmd.Usage()
			return errHelp
		}
		return cli.runJob(*runJobName)
	default:
		cli.printUsage()
		return errHelp
	}
}
