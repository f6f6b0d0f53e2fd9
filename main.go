package main

import "github.com/solenergy/solenergy.com/cmd"

func main() {
	cmd.Execute()
}
