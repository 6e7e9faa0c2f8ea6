package main

import "github.com/duckyhq/ducky/cmd"

func main() {
	cmd.Execute()
}
