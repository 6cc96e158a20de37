package main

import "github.com/notargets/tecio/cmd"

func main() {
	cmd.Execute()
}
