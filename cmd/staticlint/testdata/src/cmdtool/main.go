package main

import (
	"log"
	xos "os"
)

func run() error { return nil }

func main() {
	defer log.Println("done")
	if err := run(); err != nil {
		log.Fatalf("run: %v", err) // want `Fatalf in main skips deferred calls`
	}
	l := log.Default()
	l.Fatal("stop") // want `Fatal in main skips deferred calls`
	go func() {
		xos.Exit(3)
	}()
	xos.Exit(1) // want `Exit in main skips deferred calls`
}

func helper() {
	xos.Exit(2)
}
