package main

import (
	"fmt"
	"log"

	"github.com/itohio/espresso-shot/pkg/link"
)

// openSource connects to the instrument, or to the simulated cycle with --mock.
func openSource(opts Options) (link.Source, error) {
	var src link.Source
	if opts.Mock {
		src = link.NewMock(link.DefaultMockConfig())
	} else {
		if opts.Port == "" {
			return nil, fmt.Errorf("no serial port given (use --port or --mock)")
		}
		src = link.NewSerial(opts.Port, opts.Baud, link.DefaultBufferSize)
	}

	if err := src.Connect(); err != nil {
		return nil, err
	}
	if opts.Mock {
		log.Printf("Connected to simulated shot cycle")
	} else {
		log.Printf("Connected to serial port: %s", opts.Port)
	}
	return src, nil
}
