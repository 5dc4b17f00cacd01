package main

import "github.com/KitcatCatlord/Sanbot-MCU-Bridge/internal/cli"

func main() {
	cli.Execute()
}
