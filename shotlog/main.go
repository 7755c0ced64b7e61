package main

import (
	"errors"
	"os"

	"github.com/jessevdk/go-flags"
)

// Options are shared by every command.
type Options struct {
	Port string `short:"p" long:"port" description:"Serial port of the instrument (e.g., COM3 or /dev/ttyUSB0)"`
	Baud int    `short:"b" long:"baud" default:"115200" description:"Serial baud rate"`
	Mock bool   `long:"mock" description:"Use a simulated shot cycle instead of the serial port"`
}

var options Options

func main() {
	parser := flags.NewParser(&options, flags.Default)
	parser.ShortDescription = "espresso shot logger"

	parser.AddCommand("ports", "List serial ports", "List the serial ports available on this host.", &portsCommand{})
	parser.AddCommand("record", "Record shots", "Segment the telemetry stream into shots and save each one as JSON.", &recordCommand{})
	parser.AddCommand("calibrate", "Calibrate thermistors", "Fit Steinhart-Hart coefficients from three reference temperatures.", &calibrateCommand{})
	parser.AddCommand("view", "Plot a saved shot", "Open a window plotting the temperatures of a saved shot.", &viewCommand{})

	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}
}
