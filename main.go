package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"fjacquet/coa-xml/cmd/convert"
	"fjacquet/coa-xml/cmd/root"
	"fjacquet/coa-xml/cmd/showconfig"
	"fjacquet/coa-xml/cmd/verify"
	"fjacquet/coa-xml/internal/config"

	"github.com/joho/godotenv"
)

func init() {
	// 1. Load environment variables silently first (no logging yet)
	loadEnvSilently()

	// 2. Build the bootstrap logger from LOG_LEVEL / LOG_FORMAT
	root.Log = config.ConfigureLogging()

	// 3. Initialize root command and add all subcommands
	root.Init()
	root.Cmd.AddCommand(convert.Cmd)
	root.Cmd.AddCommand(verify.Cmd)
	root.Cmd.AddCommand(showconfig.Cmd)
}

// loadEnvSilently loads environment variables without logging anything
func loadEnvSilently() {
	if envFile := config.FindEnvFile(); envFile != "" {
		_ = godotenv.Load(envFile)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.Cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
