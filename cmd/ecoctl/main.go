// ecoctl drives an ecosysx sidecar from the host side: it spawns the
// engine subprocess, feeds it a YAML scenario, archives snapshot digests
// and metrics into a SQLite run database, and can verify determinism by
// running the same scenario twice and comparing digests.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
)

func main() {
	logger := log.New(os.Stderr, "[ecoctl] ", log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(logger, os.Args[2:])
	case "verify":
		err = cmdVerify(logger, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		logger.Fatalf("%s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `usage: ecoctl <command> [flags]

commands:
  run     drive a sidecar through a scenario and archive snapshots
  verify  run a scenario twice and compare digests at every checkpoint
`)
}

func commonFlags(fs *flag.FlagSet) (scenarioPath, sidecarPath *string) {
	scenarioPath = fs.String("scenario", "", "scenario yaml path (required)")
	sidecarPath = fs.String("sidecar", "./sidecar", "path to the sidecar binary")
	return
}
