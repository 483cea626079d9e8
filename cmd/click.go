package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zjrosen/chime/internal/dom"
	"github.com/zjrosen/chime/internal/gateway"
	"github.com/zjrosen/chime/internal/log"
	"github.com/zjrosen/chime/internal/playback"
	"github.com/zjrosen/chime/internal/sound"
	"github.com/zjrosen/chime/internal/story"
)

// revealPrefix marks ids that activate a reveal link instead of clicking.
const revealPrefix = "reveal:"

var (
	clickPrint bool
	clickPause time.Duration
)

var clickCmd = &cobra.Command{
	Use:   "click <passage.html> <element-id>...",
	Short: "Click elements of a passage and play their sounds",
	Long: `Parses a rendered passage, installs the click gateway and clicks each element
by id in order. Prefix an id with "reveal:" to activate a reveal link.

Sounds only play for every control while the toggle variable is true. It is
read from story.vars_file when configured (and reloaded when the file
changes); otherwise it defaults to true.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runClick,
}

func init() {
	clickCmd.Flags().BoolVar(&clickPrint, "print", false, "print the passage HTML after the clicks")
	clickCmd.Flags().DurationVar(&clickPause, "pause", 500*time.Millisecond, "pause between clicks")
	rootCmd.AddCommand(clickCmd)
}

func runClick(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening passage: %w", err)
	}
	doc, err := dom.Parse(f)
	_ = f.Close()
	if err != nil {
		return err
	}

	vars, stop, err := openStory(cfg.Story.VarsFile, cfg.Story.ToggleVariable)
	if err != nil {
		return err
	}
	defer stop()

	out := cmd.OutOrStdout()
	sys, err := startSystem(cmd.Context(), cfg.Sound, func(ev playback.Event) {
		name := ev.Key
		if ev.Branch == playback.BranchCustom {
			name = ev.Path
		}
		fmt.Fprintf(out, "  ♪ %s (%s, volume %.2f)\n", name, ev.Branch, ev.Volume)
	})
	if err != nil {
		return err
	}
	gateway.New(doc, story.NewToggle(vars, cfg.Story.ToggleVariable), sys.Dispatcher(), sys.Ready())

	// Readiness subscribers run in registration order, so this one runs
	// after the gateway has bound its listener.
	bound := make(chan struct{})
	sys.Ready().Subscribe(func(sound.Summary) { close(bound) })

	if _, err := sys.Wait(cmd.Context()); err != nil {
		return err
	}
	<-bound

	c := &clicker{doc: doc, player: sys.Dispatcher(), links: map[string]*dom.Node{}}
	for _, id := range args[1:] {
		if err := c.click(out, id); err != nil {
			return err
		}
		select {
		case <-time.After(clickPause):
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		}
	}

	if clickPrint {
		fmt.Fprintln(out, doc.HTML())
	}
	return nil
}

// clicker remembers reveal links by id, since a revealed link is removed
// from the passage.
type clicker struct {
	doc    *dom.Document
	player gateway.Player
	links  map[string]*dom.Node
}

func (c *clicker) click(out io.Writer, id string) error {
	if linkID, ok := strings.CutPrefix(id, revealPrefix); ok {
		link, seen := c.links[linkID]
		if !seen {
			link = c.doc.ByID(linkID)
		}
		if link == nil {
			return fmt.Errorf("no element with id %q", linkID)
		}
		c.links[linkID] = link
		fmt.Fprintf(out, "reveal #%s\n", linkID)
		if !gateway.Reveal(link, c.player) {
			fmt.Fprintln(out, "  (already revealed)")
		}
		return nil
	}

	el := c.doc.ByID(id)
	if el == nil {
		return fmt.Errorf("no element with id %q", id)
	}
	fmt.Fprintf(out, "click #%s\n", id)
	c.doc.Click(el)
	return nil
}

// openStory returns the variable store. Without a vars file the toggle
// variable is set so every control sounds.
func openStory(varsFile, toggle string) (*story.Store, func(), error) {
	if varsFile == "" {
		return story.NewStore(map[string]any{toggle: true}), func() {}, nil
	}

	vars := story.NewStore(nil)
	w, err := story.NewWatcher(story.DefaultWatchConfig(varsFile), vars)
	if err != nil {
		return nil, nil, err
	}
	if err := w.Start(); err != nil {
		_ = w.Stop()
		return nil, nil, err
	}
	return vars, func() {
		if err := w.Stop(); err != nil {
			log.Warn(log.CatStory, "Stopping variables watcher failed", "error", err)
		}
	}, nil
}
