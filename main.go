package main

import "github.com/agentic-research/opal/cmd"

func main() {
	cmd.Execute()
}
