package main

import (
	"os"

	"github.com/ember-lang/ember/cmd"
)

func main() {
	app := cmd.NewApp()
	os.Exit(app.Main(os.Args[1:]))
}
