package main

import (
	"os"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/internal/cmd"
)

func main() {
	// FLAKEID_LOG_LEVEL is read here, before any config file, so that config
	// loading can log
	level := os.Getenv("FLAKEID_LOG_LEVEL")
	if level == "" {
		level = "INFO"
	}
	logger.New(level)

	root := cmd.NewRoot(logger.Sugar.WithServiceName("flakeid"))
	err := root.Execute()
	logger.OnExit()
	if err != nil {
		os.Exit(1)
	}
}
