package main

import "taskboard/cmd/taskboard/commands"

func main() {
	commands.Execute()
}
