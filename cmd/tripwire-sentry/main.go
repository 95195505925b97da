package main

import "github.com/oshokin/tripwire/cmd/tripwire-sentry/cmd"

func main() {
	cmd.Execute()
}
