package main

import (
	"github.com/go-wireless/regdb/lib/cmd"
)

func main() {
	cmd.Execute()
}
