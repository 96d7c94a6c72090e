package main

import "github.com/beka-birhanu/vinom-maze/cli"

func main() {
	cli.Execute()
}
