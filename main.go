package main

import "github.com/theirongolddev/kepatuhan/cmd"

func main() {
	cmd.Execute()
}
