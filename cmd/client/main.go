package main

import "keepnotes/cmd/client/cmd"

func main() {
	cmd.Execute()
}
