package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(vinCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Read the readiness monitor status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		status, err := client.Status(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(status)

		if v, err := client.BatteryVoltage(cmd.Context()); err == nil {
			fmt.Printf("battery: %.1f V\n", v)
		}
		return nil
	},
}

var vinCmd = &cobra.Command{
	Use:   "vin",
	Short: "Read the vehicle identification number",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := connect(cmd)
		if err != nil {
			return err
		}
		defer client.Disconnect()

		vin := client.VIN()
		if vin == "" {
			fmt.Println("vehicle did not report a valid VIN")
			return nil
		}
		fmt.Println(vin)
		return nil
	},
}
