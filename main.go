package main

import "github.com/rjindal/segfetch/cmd"

func main() {
	cmd.Execute()
}
