package main

import "pontosync/cmd/client/cmd"

func main() {
	cmd.Execute()
}
