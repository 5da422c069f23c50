package main

import "example.com/furnish/services/serial/cmd"

func main() {
	cmd.Execute()
}
