package main

import (
	"fmt"
	"os"

	shop "github.com/ecadlabs/taco-shop"
	"github.com/ecadlabs/taco-shop/cmd/tacos"
)

func main() {
	rootCmd := tacos.BuildTacosCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error (%s): %v\n", shop.KindOf(err), err)
		os.Exit(1)
	}
}
