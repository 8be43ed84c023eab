package main

import (
	"msgwire/cmd/msgwire/cmd"
)

func main() {
	cmd.Execute()
}
