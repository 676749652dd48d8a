package main

import (
	"github.com/maxleiko/bsc/cmd"
)

func main() {
	cmd.Execute()
}
