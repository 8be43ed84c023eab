package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"msgwire/message"
	"msgwire/protocol"
)

func newEncodeCmd(a *app) *cobra.Command {
	var input, output string

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode JSON records into a binary stream",
		Long: `Encode reads JSON records and writes them as a binary stream.

The input is a single object, a JSON array of objects, or a sequence of
objects (such as the JSON lines written by decode).

Example:
  echo '{"body":"hi","fromId":"a","id":"1","toIds":["b"],"type":"t"}' | msgwire encode -o out.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer in.Close()

			records, err := readJSONRecords(in)
			if err != nil {
				return err
			}

			out, err := openOutput(cmd, output)
			if err != nil {
				return err
			}
			defer out.Close()

			w := protocol.NewWriter(out, a.binary)
			total := 0
			for i, m := range records {
				frame, err := a.wire.Encode(m)
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				if err := w.WriteFrame(frame); err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				total += len(frame)
			}

			a.logger.Info().Int("records", len(records)).Int("bytes", total).Msg("encoded")
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "JSON input file, - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Binary output file, - for stdout")
	return cmd
}

// readJSONRecords accepts one object, an array of objects, or a sequence of
// objects.
func readJSONRecords(r io.Reader) ([]*message.Msg, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var records []*message.Msg
		if err := sonic.ConfigStd.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON array: %w", err)
		}
		return records, nil
	}

	var records []*message.Msg
	dec := sonic.ConfigStd.NewDecoder(bytes.NewReader(trimmed))
	for {
		m := new(message.Msg)
		if err := dec.Decode(m); err != nil {
			if errors.Is(err, io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("failed to parse JSON record %d: %w", len(records), err)
		}
		records = append(records, m)
	}
}
