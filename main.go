package main

import (
	"github.com/ggirelli/kman/cmd"
)

func main() {
	cmd.Execute()
}
