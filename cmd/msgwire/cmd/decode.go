package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"msgwire/codec"
	"msgwire/message"
	"msgwire/protocol"
)

func newDecodeCmd(a *app) *cobra.Command {
	var input, output, format string

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode a binary stream",
		Long: `Decode reads a binary stream and writes every record in the chosen
format: JSON lines, a MessagePack sequence, or binary frames again.

Example:
  msgwire decode -i out.bin
  msgwire decode -i out.bin --format msgpack -o out.msgpack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" {
				format = a.cfg.Codec
			}
			ct, err := codec.ParseCodecType(format)
			if err != nil {
				return err
			}
			outCodec := codec.GetCodec(ct)

			in, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer in.Close()
			out, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer out.Close()

			r := protocol.NewReader(in, a.cfg.MaxMessageSize)
			count := 0
			for {
				frame, err := r.ReadFrame()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("record %d: %w", count, err)
				}

				var m message.Msg
				if err := a.wire.Decode(frame, &m); err != nil {
					return fmt.Errorf("record %d: %w", count, err)
				}
				data, err := outCodec.Encode(&m)
				if err != nil {
					return fmt.Errorf("record %d: %w", count, err)
				}
				if ct == codec.CodecTypeJSON {
					data = append(data, '\n')
				}
				if _, err := out.Write(data); err != nil {
					return err
				}
				count++
			}

			a.logger.Info().Int("records", count).Str("format", ct.String()).Msg("decoded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Binary input file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output file, - for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, msgpack or binary (default from config)")
	return cmd
}
