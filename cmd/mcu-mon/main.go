package main

//go-build: CGO_ENABLED=0

import (
	"flag"
	"log"
	"os"

	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/link"
	"github.com/robotalks/mcu.go/pkg/mon"
)

var (
	mqttURL  = "mqtt://localhost:1883/mcu/"
	endpoint = "tcp://localhost:7668"
)

func init() {
	if val := os.Getenv("MCU_MQTT_URL"); val != "" {
		mqttURL = val
	}
	if val := os.Getenv("MCU_ENDPOINT"); val != "" {
		endpoint = val
	}
	flag.StringVar(&mqttURL, "mqtt", mqttURL, "MQTT broker URL.")
	flag.StringVar(&endpoint, "endpoint", endpoint, "Controller endpoint URL.")
}

func main() {
	flag.Parse()

	q, err := mon.NewQueueFromURL(mqttURL)
	if err != nil {
		log.Fatalln(err)
	}
	if err := q.Connect(); err != nil {
		log.Fatalln(err)
	}
	defer q.Close()

	port, err := link.Dial(endpoint)
	if err != nil {
		log.Fatalln(err)
	}
	runner := fx.NewRunner().HandleSignals()
	runner.Go(fx.NamedRun("bridge", mon.NewBridge(q, port)))
	if err := runner.Wait(); err != nil {
		log.Fatalln(err)
	}
}
