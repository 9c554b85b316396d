package main

import "github.com/example/slotfinder/internal/interfaces/cli"

func main() {
	cli.Execute()
}
