package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMachineIDCommand() *cobra.Command {
	machineIDCmd := &cobra.Command{
		Use:   "machine-id",
		Short: "Print the machine id the configuration resolves to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			bits := cfg.Bits.Machine
			if cmd.Flags().Changed("bits") {
				bits, _ = cmd.Flags().GetUint8("bits")
			}
			id, err := cfg.ResolveMachineID(bits)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	machineIDCmd.Flags().Uint8("bits", 0, "Machine field width, defaults to the configured 64 bit layout")
	return machineIDCmd
}
