package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/itohio/espresso-shot/pkg/device"
	"github.com/itohio/espresso-shot/pkg/recorder"
)

type recordCommand struct {
	Dir     string `short:"d" long:"dir" default:"shots" description:"Directory for saved shots"`
	NoSave  bool   `long:"no-save" description:"Print records without saving shots"`
	Verbose bool   `short:"v" long:"verbose" description:"Print every record"`
}

func (c *recordCommand) Execute(args []string) error {
	src, err := openSource(options)
	if err != nil {
		return err
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec := recorder.New(c.Dir)
	rec.Save = !c.NoSave

	records := src.Records()
	for {
		select {
		case <-ctx.Done():
			return nil
		case r, ok := <-records:
			if !ok {
				return fmt.Errorf("telemetry stream closed")
			}
			if c.Verbose || r.State != device.Stopped {
				fmt.Printf("%-8s %6.1fs basket %6.2f C  group %6.2f C\n",
					r.State, r.Elapsed, r.BasketTemperature, r.GroupTemperature)
			}

			shot, path, err := rec.Add(r)
			if err != nil {
				log.Printf("Failed to save shot: %v", err)
				continue
			}
			if shot == nil {
				continue
			}
			if path != "" {
				log.Printf("Saved %d samples to %s", len(shot.Time), path)
			} else {
				log.Printf("Shot finished with %d samples", len(shot.Time))
			}
		}
	}
}
