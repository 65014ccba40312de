//go:build linux

package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/voluzi/process-watcher/cmd/process-watcher/cmd"
)

func main() {
	cmd.Execute()
}
