package main

//go-build: CGO_ENABLED=0

import (
	"github.com/robotalks/mcu.go/pkg/cli/sh"

	_ "github.com/robotalks/mcu.go/pkg/cli/cmds/ctl"
)

func main() {
	sh.Main()
}
