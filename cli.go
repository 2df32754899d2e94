//go:build cli
// +build cli

package main

import (
	_ "stockmaster.GO/custom"

	"stockmaster.GO/cmd"
	"stockmaster.GO/config"
)

func main() {
	config.LoadEnv()
	config.LoadAppConfig()
	cmd.Execute()
}
