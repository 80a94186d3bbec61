package main

import "github.com/facegate/attendance-engine/cmd"

func main() {
	cmd.Execute()
}
