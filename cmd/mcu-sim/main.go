package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/sim"
)

var (
	configFile = "controller.yml"
	endpoint   = "tcp://:7668"
)

func init() {
	if val := os.Getenv("MCU_CONFIG"); val != "" {
		configFile = val
	}
	if val := os.Getenv("MCU_ENDPOINT"); val != "" {
		endpoint = val
	}
	flag.StringVar(&configFile, "config", configFile, "Controller declaration file.")
	flag.StringVar(&endpoint, "endpoint", endpoint, "Endpoint URL to serve the controller at.")
}

func main() {
	flag.Parse()

	conf, err := sim.LoadConfig(configFile)
	if err != nil {
		log.Fatalln(err)
	}
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("controller", &sim.Server{Config: conf, URL: endpoint}))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
