package main

import "github.com/rustyeddy/stockbook/internal/cli"

func main() {
	cli.Execute()
}
