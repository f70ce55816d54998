package main

import "github.com/mars-sim/mars-sim-sub009/internal/adapters/cli"

func main() {
	cli.Execute()
}
