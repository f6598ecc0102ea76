package main

import (
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"ipranges/internal/app"
	"ipranges/internal/config"
)

const configErrorExitCode = 2

func main() {
	if err := app.Run(os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			log.Error("Invalid invocation", "error", err)
			os.Exit(configErrorExitCode)
		}
		log.Fatal("ipranges terminated", "error", err)
	}
}
