package main

import "github.com/bassamadnan/inboxpilot/cli"

func main() {
	cli.Execute()
}
