package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"msgwire/codec"
	"msgwire/message"
	"msgwire/protocol"
)

var (
	fieldColor  = color.New(color.FgCyan).SprintFunc()
	headerColor = color.New(color.Bold).SprintFunc()
	errorColor  = color.New(color.FgRed).SprintFunc()
)

func newInspectCmd(a *app) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the byte layout of each record in a binary stream",
		Long: `Inspect prints, for every record, the byte range each field occupies
and its decoded value. A record that fails to decode is reported and
skipped; the stream continues with the next frame.

Example:
  msgwire inspect -i out.bin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := openInput(cmd, input)
			if err != nil {
				return err
			}
			defer in.Close()

			out := cmd.OutOrStdout()
			r := protocol.NewReader(in, a.cfg.MaxMessageSize)
			bad := 0
			for i := 0; ; i++ {
				frame, err := r.ReadFrame()
				if errors.Is(err, io.EOF) {
					break
				}
				if err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}

				fmt.Fprintf(out, "%s  %d bytes\n", headerColor(fmt.Sprintf("record %d", i)), len(frame))
				spans, m, err := a.binary.Layout(frame)
				if err != nil {
					bad++
					fmt.Fprintf(out, "  %s\n", errorColor(err.Error()))
					continue
				}
				printLayout(out, len(frame), spans, m)
			}

			if bad > 0 {
				return fmt.Errorf("%d record(s) failed to decode", bad)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "Binary input file, - for stdin")
	return cmd
}

func printLayout(out io.Writer, size int, spans []codec.FieldSpan, m *message.Msg) {
	values := []string{
		message.FieldBody:   strconv.Quote(m.Body),
		message.FieldFromID: strconv.Quote(m.FromID),
		message.FieldID:     strconv.Quote(m.ID),
		message.FieldToIDs:  fmt.Sprintf("%q", m.ToIDs),
		message.FieldType:   strconv.Quote(m.Type),
	}

	fmt.Fprintf(out, "  %-8s %-12s total_length=%d\n", fieldColor("header"), "[0,4)", size-codec.HeaderSize)
	for i, s := range spans {
		fmt.Fprintf(out, "  %-8s %-12s %s\n", fieldColor(s.Field), fmt.Sprintf("[%d,%d)", s.Offset, s.End()), values[i])
	}
}
