//go:build linux

package main

import (
	"myshell/cmd"
)

func main() {
	cmd.Execute()
}
