package main

import "github.com/tatianab/stronghold/internal/cli"

func main() {
	cli.Execute()
}
