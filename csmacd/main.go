// Command csmacd simulates stations sharing a CSMA/CD medium and prints the
// throughput and average delay of the run.
package main

import "github.com/sarchlab/csmacd/csmacd/cmd"

func main() {
	cmd.Execute()
}
