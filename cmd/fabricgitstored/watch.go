package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print a line every time the store observes a change",
	Long: `Subscribes to the store's change publisher and prints a
timestamped line for every push, pull, or local mutation until
interrupted. Useful for confirming the sync loop is reconciling against
a remote.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

		ctx, cancel := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		id := ds.Subscribe(func() {
			fmt.Println(changed.Render(fmt.Sprintf("[%s] change observed", time.Now().Format(time.RFC3339))))
		})
		defer ds.Unsubscribe(id)

		fmt.Println(accent.Render("watching... press Ctrl+C to stop"))
		<-ctx.Done()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
