package main

import (
	"github.com/mhalloran/golfsync/internal/cli"
)

func main() {
	cli.Execute()
}
