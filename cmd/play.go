package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/chime/internal/playback"
)

var (
	playPath   string
	playVolume string
	playWait   time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play [preset]",
	Short: "Play a preset, a one-off file, or the default sound",
	Long: `Plays a sound the same way a story control would: --path plays a one-off
file, a preset argument plays that table entry, and with neither the default
(click) sound is used. --volume overrides the volume for this play only.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&playPath, "path", "", "one-off audio file to play instead of a preset")
	playCmd.Flags().StringVar(&playVolume, "volume", "", "volume override between 0 and 1")
	playCmd.Flags().DurationVar(&playWait, "wait", 2*time.Second, "how long to keep the process alive for playback")
	rootCmd.AddCommand(playCmd)
}

// playAttrs builds the element attributes a story control would carry.
func playAttrs(preset, path, volume string) playback.Attrs {
	attrs := playback.Attrs{}
	if preset != "" {
		attrs[playback.AttrPreset] = preset
	}
	if path != "" {
		attrs[playback.AttrSound] = path
	}
	if volume != "" {
		attrs[playback.AttrVolume] = volume
	}
	return attrs
}

func runPlay(cmd *cobra.Command, args []string) error {
	var preset string
	if len(args) == 1 {
		preset = args[0]
	}

	started := make(chan playback.Event, 1)
	sys, err := startSystem(cmd.Context(), cfg.Sound, func(ev playback.Event) {
		select {
		case started <- ev:
		default:
		}
	})
	if err != nil {
		return err
	}
	if _, err := sys.Wait(cmd.Context()); err != nil {
		return err
	}

	sys.Dispatcher().Play(playAttrs(preset, playPath, playVolume))

	// Playback is asynchronous; one-off files load before they start.
	timer := time.NewTimer(playWait)
	defer timer.Stop()
	select {
	case ev := <-started:
		name := ev.Key
		if ev.Branch == playback.BranchCustom {
			name = ev.Path
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Playing %s (%s, volume %.2f)\n", name, ev.Branch, ev.Volume)
	case <-timer.C:
		return fmt.Errorf("nothing played; see the log for details")
	case <-cmd.Context().Done():
		return cmd.Context().Err()
	}

	select {
	case <-timer.C:
	case <-cmd.Context().Done():
	}
	return nil
}
