package cmd

import (
	"fmt"
	"sort"

	"github.com/roffe/goobd"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List the supported PIDs and read each live value once",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		supported := client.SupportedPIDs()
		var live []goobd.Command
		for c := range supported {
			if spec, err := goobd.Lookup(c); err == nil && spec.Live {
				live = append(live, c)
			}
		}
		sort.Slice(live, func(i, j int) bool { return live[i] < live[j] })
		fmt.Printf("vehicle supports %d PIDs, %d readable live values\n", len(supported), len(live))

		bar := progressbar.Default(int64(len(live)), "reading")
		type row struct {
			spec  goobd.Spec
			value goobd.Measurement
		}
		var rows []row
		for _, c := range live {
			values, err := client.RequestPIDs(cmd.Context(), c)
			bar.Add(1)
			if err != nil {
				continue
			}
			if m, ok := values[c]; ok {
				spec, _ := goobd.Lookup(c)
				rows = append(rows, row{spec: spec, value: m})
			}
		}
		bar.Finish()

		for _, r := range rows {
			fmt.Printf("%-6s %-40s %10.2f %s\n", r.spec.Command, r.spec.Desc, r.value.Value, r.value.Unit)
		}
		return nil
	},
}
