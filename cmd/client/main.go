package main

import "lifehub/cmd/client/cmd"

func main() {
	cmd.Execute()
}
