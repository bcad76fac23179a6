package main

import "github.com/datbolt/dbmigrate/cmd"

func main() {
	cmd.Execute()
}
