package main

import (
	"fmt"

	"github.com/temirov/fop/internal/cli"
	"github.com/temirov/fop/internal/utils"
)

// main is the entry point for the fop command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewApplicationLogger(utils.LoggerOptions{})
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
