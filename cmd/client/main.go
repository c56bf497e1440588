package main

import (
	"fmt"
	"os"
)

var (
	version   string
	buildDate string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
