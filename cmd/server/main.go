package main

import (
	"github.com/inkforge/castline/internal/server"
	"github.com/inkforge/castline/internal/util"
	"github.com/inkforge/castline/pkg/logger"
	"github.com/inkforge/castline/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
