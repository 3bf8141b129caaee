package main

import (
	"context"
	"fmt"

	"github.com/edusight/backend/core/analytics"
)

func (cli *commandLine) runJob(name string) error {
	var err error
	switch name {
	case analytics.JobGradingTimeliness:
		err = cli.jobs.CheckGradingTimeliness(context.Background())
	case analytics.JobWeeklyReports:
		err = cli.jobs.SendWeeklyReports(context.Background())
	case analytics.JobDailyAlerts:
		err = cli.jobs.SendDailyAlerts(context.Background())
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	if err != nil {
		return err
	}
	logger.Printf("job %s done", name)
	return nil
}
