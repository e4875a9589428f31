package main

import "github.com/jhoicas/smartsignal-api/cmd/smartsignal/cmd"

func main() {
	cmd.Execute()
}
