package main

import "reviewhub/cmd/cli/command"

func main() {
	command.Execute()
}
