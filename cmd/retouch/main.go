package main

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/temirov/retouch/internal/cli"
	"github.com/temirov/retouch/internal/utils"
)

// main is the entry point for the retouch command.
func main() {
	loggerInstance, loggerInitializationError := utils.NewConsoleLogger(zapcore.InfoLevel)
	if loggerInitializationError != nil {
		panic(fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, loggerInitializationError))
	}
	defer loggerInstance.Sync()
	if applicationExecutionError := cli.Execute(loggerInstance); applicationExecutionError != nil {
		loggerInstance.Fatal(utils.ApplicationExecutionFailedMessage + ": " + applicationExecutionError.Error())
	}
}
