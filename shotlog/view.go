package main

import (
	"fmt"
	"path/filepath"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/chewxy/math32"

	"github.com/itohio/espresso-shot/pkg/recorder"
	"github.com/itohio/espresso-shot/pkg/scope"
)

type viewCommand struct {
	Args struct {
		File string `positional-arg-name:"FILE" description:"Saved shot (JSON)"`
	} `positional-args:"yes" required:"yes"`
}

func (c *viewCommand) Execute(args []string) error {
	shot, err := recorder.Load(c.Args.File)
	if err != nil {
		return err
	}

	application := app.NewWithID("com.itohio.espresso-shot.shotlog")
	window := application.NewWindow(filepath.Base(c.Args.File))
	window.Resize(fyne.NewSize(900, 500))

	plot := scope.New(0)
	plot.UpdateData(shotPoints(shot), math32.NaN())

	window.SetContent(container.NewBorder(widget.NewLabel(shotSummary(shot)), nil, nil, nil, plot))
	window.ShowAndRun()
	return nil
}

// shotPoints converts a saved shot into trace points. Mismatched series are
// cut to the shortest.
func shotPoints(shot *recorder.Shot) []scope.Point {
	n := min(len(shot.Time), len(shot.BasketTemperature), len(shot.GroupTemperature))
	points := make([]scope.Point, n)
	for i := range n {
		points[i] = scope.Point{
			Elapsed: shot.Time[i],
			Basket:  shot.BasketTemperature[i],
			Group:   shot.GroupTemperature[i],
		}
	}
	return points
}

func shotSummary(shot *recorder.Shot) string {
	started := time.Unix(0, int64(shot.PosixTime*1e9))
	var length float32
	if n := len(shot.Time); n > 0 {
		length = shot.Time[n-1]
	}
	s := fmt.Sprintf("%s  %.1fs", started.Format("2006-01-02 15:04:05"), length)
	if shot.Description != "" {
		s += "  " + shot.Description
	}
	return s
}
