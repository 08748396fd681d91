package main

import (
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/athapong/aio-richtext/pkg/richtext"
	"github.com/athapong/aio-richtext/tools"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Warnf("Error loading env file %s: %v", *envFile, err)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level, err := logrus.ParseLevel(v)
		if err != nil {
			logger.Fatalf("Invalid log level: %v", err)
		}
		logger.SetLevel(level)
	}

	opts, err := richtext.OptionsFromEnv()
	if err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	opts.Logger = logger

	builder, err := richtext.NewBuilder(opts)
	if err != nil {
		logger.Fatalf("Failed to create builder: %v", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		"aio-richtext",
		"1.0.0",
		server.WithLogging(),
	)

	tools.RegisterToolManagerTool(mcpServer)

	enabled := tools.EnabledTools(os.Getenv("ENABLE_TOOLS"))

	if tools.IsEnabled(enabled, "render") {
		tools.RegisterRenderTools(mcpServer, builder)
	}

	if tools.IsEnabled(enabled, "fetch") {
		tools.RegisterFetchTool(mcpServer, builder)
	}

	if tools.IsEnabled(enabled, "compare") {
		tools.RegisterCompareTool(mcpServer, builder)
	}

	if err := server.ServeStdio(mcpServer); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
