// main.go
//
// Entry point; the Cobra commands live in cmd/.

package main

import (
	"github.com/netplan-sim/resilience-sim/cmd"
)

func main() {
	cmd.Execute()
}
