// main is the entry point for the reporank CLI.
package main

import (
	"github.com/huangsam/reporank/cmd"
	"github.com/huangsam/reporank/internal/contract"
	"github.com/huangsam/reporank/internal/iocache"
)

func main() {
	err := cmd.Execute()
	if stopErr := cmd.StopProfiling(); stopErr != nil {
		contract.LogWarn("Failed to stop profiling", stopErr)
	}
	iocache.CloseStores()
	if err != nil {
		contract.LogFatal("Command failed", err)
	}
}
