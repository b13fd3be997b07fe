package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"

	"github.com/mzkii/MomentumGo/internal/scanner"
	"github.com/mzkii/MomentumGo/internal/snapshot"
)

const (
	actionFullRefresh  = "Full Refresh (update 20D High/Low + Prices)"
	actionQuickRefresh = "Quick Refresh (update only Current Prices)"
	actionExtremes     = "New-Extreme Check (today's High/Low vs stored baseline)"
	actionShow         = "Show Breakouts"
	actionQuit         = "Quit"
)

// runInteractive drives the screener from a menu; one menu entry per refresh
// operation, so the snapshot survives between actions.
func runInteractive(a *app) error {
	defer a.log.Sync()
	ctx := context.Background()

	for {
		var action string
		prompt := &survey.Select{
			Message: "MomentumGo - 20D High/Low Scanner",
			Options: []string{
				actionFullRefresh,
				actionQuickRefresh,
				actionExtremes,
				actionShow,
				actionQuit,
			},
		}
		if err := survey.AskOne(prompt, &action); err != nil {
			return err
		}

		var err error
		switch action {
		case actionFullRefresh:
			err = a.runFullScan(ctx)
		case actionQuickRefresh:
			err = a.runQuickRefresh(ctx)
		case actionExtremes:
			err = a.runExtremeCheck(ctx)
		case actionShow:
			records := a.scanner.Store().Read()
			a.renderer.Snapshot(records)
			a.renderer.Breakouts(scanner.DetectBreakouts(records))
			a.renderer.Status(a.scanner.Store().ReadClock())
		case actionQuit:
			return nil
		}

		if errors.Is(err, snapshot.ErrNotInitialized) {
			fmt.Println("Please run a Full Refresh first!")
			continue
		}
		if err != nil {
			return err
		}
	}
}
