package main

import "batodl/cmd"

func main() {
	cmd.Execute()
}
