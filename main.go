package main

import "propstore/cmd"

func main() {
	cmd.Execute()
}
