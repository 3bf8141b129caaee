package main

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags)
	os.Exit(m.Run())
}

func TestRunHelp(t *testing.T) {
	cli := commandLine{}

	assert.Equal(t, errHelp, cli.run([]string{"admin"}))
	assert.Equal(t, errHelp, cli.run([]string{"admin", "bogus"}))
	assert.Equal(t, errHelp, cli.run([]string{"admin", "adduser"}))
	assert.Equal(t, errHelp, cli.run([]string{"admin", "runjob"}))
}

func TestRunJobUnknown(t *testing.T) {
	cli := commandLine{}

	err := cli.run([]string{"admin", "runjob", "-name", "bogus"})
	assert.EqualError(t, err, `unknown job "bogus"`)
}
