package main

import "github.com/schovi/textkit/cmd"

func main() {
	cmd.Execute()
}
