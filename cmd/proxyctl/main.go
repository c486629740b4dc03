package main

import (
	"fmt"
	"os"

	"github.com/guscost-opensea/unleash-proxy/cmd/proxyctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
