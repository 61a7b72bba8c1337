package main

import (
	"fmt"
	"os"

	"github.com/patentdesk/backend/internal/app"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Start()

	a.Log.Info("Server listening", "addr", a.Cfg.Addr)
	if err := a.Run(); err != nil {
		a.Log.Error("Server exited", "error", err)
		os.Exit(1)
	}
}
