package main

import "autoapply/internal/cli"

func main() {
	cli.Execute()
}
