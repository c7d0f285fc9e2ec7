package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vilterp/hornlog/pkg"
)

var port = flag.Int("port", 9000, "port to listen on")
var host = flag.String("host", "0.0.0.0", "host to listen on")
var dataFile = flag.String("data-file", "hornlog.data", "data file")
var rulesFile = flag.String("rules", "", "rules file to load at startup (not persisted)")
var maxRounds = flag.Int("max-rounds", hornlog.DefaultMaxRounds, "max saturation rounds per query")
var maxFacts = flag.Int("max-facts", hornlog.DefaultMaxFacts, "max facts in the fact set")

func main() {
	// get cmdline flags
	flag.Parse()

	fmt.Println("hornlog server")

	server := hornlog.NewServer(*dataFile, *rulesFile, *host, *port, hornlog.EngineLimits{
		MaxRounds: *maxRounds,
		MaxFacts:  *maxFacts,
	})

	// graceful shutdown on Ctrl-C
	ctrlCChan := make(chan os.Signal, 1)
	signal.Notify(ctrlCChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlCChan
		if err := server.Close(); err != nil {
			log.Println("error closing:", err)
		}
		os.Exit(0)
	}()

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("error listening:", err)
	}
}
