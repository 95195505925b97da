package main

import "github.com/oshokin/tripwire/cmd/tripwire-sim/cmd"

func main() {
	cmd.Execute()
}
