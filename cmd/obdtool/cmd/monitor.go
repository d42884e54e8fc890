package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/roffe/goobd"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func init() {
	monitorCmd.Flags().Bool("adaptive", false, "adapt the polling interval to the adapter")
	monitorCmd.Flags().Duration("interval", 300*time.Millisecond, "polling interval")
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor [pid...]",
	Short: "Continuously poll live values, defaults to rpm/speed/coolant/load",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		commands := []goobd.Command{goobd.CmdRPM, goobd.CmdSpeed, goobd.CmdCoolantTemp, goobd.CmdEngineLoad}
		if len(args) > 0 {
			commands = commands[:0]
			for _, a := range args {
				commands = append(commands, goobd.Command(a))
			}
		}

		poller, err := client.ContinuousUpdates(cmd.Context(), commands, goobd.PollBatched)
		if err != nil {
			return err
		}
		defer poller.Stop()

		cyan := color.New(color.FgCyan).SprintFunc()

		g, ctx := errgroup.WithContext(cmd.Context())
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case snapshot, ok := <-poller.Snapshots():
					if !ok {
						return nil
					}
					keys := make([]goobd.Command, 0, len(snapshot))
					for k := range snapshot {
						keys = append(keys, k)
					}
					sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
					for _, k := range keys {
						m := snapshot[k]
						spec, _ := goobd.Lookup(k)
						fmt.Printf("%s %8.2f %-5s  ", cyan(spec.ShortDesc), m.Value, m.Unit)
					}
					fmt.Println()
				}
			}
		})
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return nil
				case evt := <-client.Events():
					fmt.Println(evt)
				}
			}
		})
		return g.Wait()
	},
}
