package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/espresso-shot/pkg/config"
)

// createToolbar creates the lever, target and sensor fault controls.
func createToolbar(state *appState) fyne.CanvasObject {
	leverBtn := widget.NewButton("Lever", func() {
		handleLeverToggle(state)
	})
	state.leverBtn = leverBtn

	var target fyne.CanvasObject
	if state.cfg.Target.Mode == config.TargetModePotentiometer {
		slider := widget.NewSlider(0, float64(state.cfg.Target.RawMax))
		slider.OnChanged = func(v float64) {
			state.sim.SetTargetRaw(int16(v))
		}
		target = container.NewGridWrap(fyne.NewSize(200, slider.MinSize().Height), slider)
	} else {
		decreaseBtn := widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), state.sim.PressDecrease)
		increaseBtn := widget.NewButtonWithIcon("", theme.ContentAddIcon(), state.sim.PressIncrease)
		target = container.NewHBox(decreaseBtn, increaseBtn)
	}

	var basketOpen, groupOpen bool
	basketCheck := widget.NewCheck("Basket open", func(on bool) {
		basketOpen = on
		state.sim.Disconnect(basketOpen, groupOpen)
	})
	groupCheck := widget.NewCheck("Group open", func(on bool) {
		groupOpen = on
		state.sim.Disconnect(basketOpen, groupOpen)
	})

	return container.NewBorder(
		nil,                                 // top
		nil,                                 // bottom
		container.NewHBox(leverBtn, target), // left
		container.NewHBox(basketCheck, groupCheck), // right
		nil, // center (spacer)
	)
}

// handleLeverToggle raises or lowers the brew lever.
func handleLeverToggle(state *appState) {
	up := !state.sim.LeverUp()
	state.sim.SetLever(up)
	updateLeverButton(state.leverBtn, up)
}

// updateLeverButton highlights the lever button while the lever is up.
func updateLeverButton(btn *widget.Button, up bool) {
	if up {
		btn.Importance = widget.HighImportance
	} else {
		btn.Importance = widget.MediumImportance
	}
	btn.Refresh()
}
