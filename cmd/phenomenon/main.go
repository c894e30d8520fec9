package main

import (
	"fmt"
	"os"

	"github.com/ivlev/phenomenon/internal/config"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] %v\n", err)
		os.Exit(1)
	}
	cfg.BuildVersion = version

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}
