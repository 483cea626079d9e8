package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/ui/soundboard"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Open the interactive soundboard",
	Long:  `Shows every loaded sound and plays the selected one on enter.`,
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	played := make(chan playback.Event, 16)
	sys, err := startSystem(ctx, cfg.Sound, func(ev playback.Event) {
		select {
		case played <- ev:
		default:
		}
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		soundboard.New(sys.Dispatcher()),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	go func() {
		sum, err := sys.Wait(ctx)
		if err != nil {
			p.Send(soundboard.FailedMsg{Err: err})
			return
		}
		p.Send(soundboard.ReadyMsg{Summary: sum, Rows: soundboard.RowsFromTable(sys.Table())})
	}()
	go func() {
		for {
			select {
			case ev := <-played:
				p.Send(soundboard.PlayedMsg{Event: ev})
			case <-ctx.Done():
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running soundboard: %w", err)
	}
	return nil
}
