package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/forestrie/go-flakeid/flake"
	"github.com/forestrie/go-flakeid/flake128"
	"github.com/forestrie/go-flakeid/snowflakeid"
	"github.com/spf13/cobra"
)

// exhaustedBackoff is how long the commands sleep before retrying after
// flake.ErrExhausted.
const exhaustedBackoff = 100 * time.Microsecond

func newGenCommand(log logger.Logger) *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate 64 bit ids, one per line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			asHex, _ := cmd.Flags().GetBool("hex")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gcfg, err := cfg.Snowflake()
			if err != nil {
				return err
			}
			gcfg.Log = log
			g, err := snowflakeid.NewGenerator(gcfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < count; {
				id, err := g.NextUnsignedID()
				if errors.Is(err, flake.ErrExhausted) {
					time.Sleep(exhaustedBackoff)
					continue
				}
				if err != nil {
					return err
				}
				if asHex {
					_, _ = fmt.Fprintf(out, "0x%s\n", snowflakeid.IDHex(id))
				} else {
					_, _ = fmt.Fprintln(out, id)
				}
				i++
			}
			return nil
		},
	}
	genCmd.Flags().IntP("count", "n", 1, "Number of ids")
	genCmd.Flags().Bool("hex", false, "Print ids as 0x prefixed big endian hex")
	genCmd.Flags().Bool("unsigned", false, "Use all 64 bits, the layout must sum to 64")
	genCmd.Flags().Bool("wait", false, "Spin for the next tick rather than sleeping on exhaustion")
	return genCmd
}

func newGen128Command(log logger.Logger) *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen128",
		Short: "Generate 128 bit ids in 8-4-4-4-12 hex form, one per line",
		RunE: func(cmd *cobra.Command, _ []string) error {
			count, _ := cmd.Flags().GetInt("count")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			gcfg, err := cfg.Flake128()
			if err != nil {
				return err
			}
			gcfg.Log = log
			g, err := flake128.NewGenerator(gcfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i := 0; i < count; {
				id, err := g.NextID()
				if errors.Is(err, flake.ErrExhausted) {
					time.Sleep(exhaustedBackoff)
					continue
				}
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(out, id)
				i++
			}
			return nil
		},
	}
	genCmd.Flags().IntP("count", "n", 1, "Number of ids")
	genCmd.Flags().Bool("wait", false, "Spin for the next tick rather than sleeping on exhaustion")
	return genCmd
}
