package main

import "github.com/josephlewis42/unox/cmd"

func main() {
	cmd.Execute()
}
