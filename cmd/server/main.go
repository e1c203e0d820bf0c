package main

import "github.com/internlog/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
