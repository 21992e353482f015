package main

import "github.com/virtualracing/league-standings-go/cmd"

func main() {
	cmd.Execute()
}
