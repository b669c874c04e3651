package main

import "listing-sync/cmd"

func main() {
	cmd.Execute()
}
