package main

import "github.com/kasuboski/reelbox/cmd"

func main() {
	cmd.Execute()
}
