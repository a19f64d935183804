// Package main is the entry point for the goflix application.
package main

import (
	"github.com/goflix/goflix/cmd"
	"github.com/goflix/goflix/config"
	"github.com/goflix/goflix/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
