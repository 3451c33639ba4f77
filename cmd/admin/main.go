package main

import "travelex/cmd/admin/cmd"

func main() {
	cmd.Execute()
}
