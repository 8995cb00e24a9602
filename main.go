package main

import "github.com/kamal-hamza/lx-assets/cmd"

func main() {
	cmd.Execute()
}
