package main

import (
	"fmt"

	"github.com/itohio/espresso-shot/pkg/link"
)

type portsCommand struct{}

func (c *portsCommand) Execute(args []string) error {
	ports, err := link.Ports()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return nil
	}
	for _, p := range ports {
		fmt.Println(p.Name)
	}
	return nil
}
