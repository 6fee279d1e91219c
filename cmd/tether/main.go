// Package main provides the Tether ML Binding CLI.
package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tether-ml/tether/capability"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Tether ML Binding %s\n", version)
			return
		case "capabilities":
			report, err := yaml.Marshal(capability.Report())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			os.Stdout.Write(report)
			return
		}
	}

	fmt.Println("Tether ML Binding - a typed surface over your training framework")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version        Show version")
	fmt.Println("  capabilities   Probe optional features of this environment")
}
