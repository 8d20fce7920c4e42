package main

import (
	"os"

	"github.com/CargoLink-Admin/CargoLink-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
