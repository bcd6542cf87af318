package main

import "github.com/KaramelBytes/pricewatch-cli/cmd"

func main() {
	cmd.Execute()
}
