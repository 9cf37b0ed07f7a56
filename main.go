package main

import "github.com/iksnae/water-eject/cmd"

func main() {
	cmd.Execute()
}
