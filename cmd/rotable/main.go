package main

import (
	"github.com/andrescamacho/rotable-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
