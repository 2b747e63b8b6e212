package main

import "github.com/gitplit/gitplit/cmd"

func main() {
	cmd.Execute()
}
