package main

import "github.com/oshokin/tripwire/cmd/tripwire-checker/cmd"

func main() {
	cmd.Execute()
}
