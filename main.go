package main

import "github.com/Sagar-1103/blush-build/cmd"

func main() {
	cmd.Run()
}
