package cmd

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/forestrie/go-flakeid/flake128"
	"github.com/forestrie/go-flakeid/snowflakeid"
	"github.com/fxamacker/cbor/v2"
	"github.com/spf13/cobra"
)

var (
	ErrFormat   = errors.New("unknown output format, use json or cbor")
	ErrSignedID = errors.New("the id does not fit a signed layout")
)

// decoded64 is the output of decode. The CBOR form uses integer keys, the
// Parts fields keep the keys 1-3.
type decoded64 struct {
	ID uint64 `json:"id" cbor:"0,keyasint"`
	snowflakeid.Parts
	Time string `json:"time" cbor:"4,keyasint"`
}

type decoded128 struct {
	ID        flake128.ID `json:"id" cbor:"0,keyasint"`
	Timestamp int64       `json:"timestamp" cbor:"1,keyasint"`
	MachineID uint16      `json:"machine_id" cbor:"2,keyasint"`
	Payload   uint64      `json:"payload" cbor:"3,keyasint"`
	Time      string      `json:"time" cbor:"4,keyasint"`
}

// writeDecoded writes v as a JSON line, or as a line of hex encoded CBOR.
func writeDecoded(w io.Writer, format string, v any) error {
	switch format {
	case "json":
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "cbor":
		b, err := cbor.Marshal(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, hex.EncodeToString(b))
		return err
	}
	return fmt.Errorf("%q: %w", format, ErrFormat)
}

// parseID64 accepts a decimal id, or the 0x prefixed hex form.
func parseID64(s string) (uint64, error) {
	if strings.HasPrefix(s, "0x") {
		return snowflakeid.ParseIDHex(s)
	}
	return strconv.ParseUint(s, 10, 64)
}

func newDecodeCommand() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode ID...",
		Short: "Split 64 bit ids, decimal or 0x hex, into timestamp, machine id and sequence",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			width := snowflakeid.Signed
			if cfg.Unsigned {
				width = snowflakeid.Unsigned
			}
			layout, err := snowflakeid.BitWidths{
				Timestamp: cfg.Bits.Timestamp,
				Machine:   cfg.Bits.Machine,
				Sequence:  cfg.Bits.Sequence,
			}.Layout(width)
			if err != nil {
				return err
			}

			for _, arg := range args {
				id, err := parseID64(arg)
				if err != nil {
					return fmt.Errorf("decode %s: %w", arg, err)
				}
				if width == snowflakeid.Signed && id>>63 != 0 {
					return fmt.Errorf("decode %s: %w", arg, ErrSignedID)
				}
				err = writeDecoded(cmd.OutOrStdout(), format, decoded64{
					ID:    id,
					Parts: layout.Split(id),
					Time:  layout.IDTime(id, cfg.OffsetMS).Format(time.RFC3339Nano),
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	decodeCmd.Flags().String("format", "json", "Output format: json or cbor (hex)")
	decodeCmd.Flags().Bool("unsigned", false, "Decode with the 64 bit layout")
	return decodeCmd
}

func newDecode128Command() *cobra.Command {
	decodeCmd := &cobra.Command{
		Use:   "decode128 ID...",
		Short: "Split 128 bit ids into timestamp, machine id and payload",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			for _, arg := range args {
				id, err := flake128.Parse(arg)
				if err != nil {
					return fmt.Errorf("decode128 %s: %w", arg, err)
				}
				err = writeDecoded(cmd.OutOrStdout(), format, decoded128{
					ID:        id,
					Timestamp: id.Timestamp(),
					MachineID: id.MachineID(),
					Payload:   id.Payload(),
					Time:      id.Time(cfg.OffsetMS).Format(time.RFC3339Nano),
				})
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	decodeCmd.Flags().String("format", "json", "Output format: json or cbor (hex)")
	return decodeCmd
}
