package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(dtcCmd)
	rootCmd.AddCommand(clearCmd)
}

var dtcCmd = &cobra.Command{
	Use:   "dtc",
	Short: "Read stored and pending trouble codes from every ECU",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		red := color.New(color.FgRed).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()

		stored, err := client.ScanTroubleCodes(cmd.Context())
		if err != nil {
			return err
		}
		if len(stored) == 0 {
			fmt.Println("no stored trouble codes")
		}
		for ecu, codes := range stored {
			fmt.Printf("%s:\n", ecu)
			for _, c := range codes {
				fmt.Printf("  %s %s\n", red(c.Code), c.Description)
			}
		}

		pending, err := client.ScanPendingTroubleCodes(cmd.Context())
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("no pending trouble codes")
		}
		for ecu, codes := range pending {
			fmt.Printf("%s (pending):\n", ecu)
			for _, c := range codes {
				fmt.Printf("  %s %s\n", yellow(c.Code), c.Description)
			}
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear trouble codes and turn the MIL off",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		if err := client.ClearTroubleCodes(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("trouble codes cleared")
		return nil
	},
}
