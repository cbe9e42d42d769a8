package main

import "github.com/freeeve/foundry/internal/cli"

func main() {
	cli.Execute()
}
