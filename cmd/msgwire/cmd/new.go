package cmd

import (
	"github.com/spf13/cobra"

	"msgwire/codec"
	"msgwire/message"
)

func newNewCmd(a *app) *cobra.Command {
	var (
		body, from, typ string
		to              []string
		idScheme        string
		format          string
		validate        bool
	)

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a record with a generated id",
		Long: `New builds a record from flags, assigns it a fresh id and prints it.

Example:
  msgwire new --body "Hello" --from alice --to bob,carol --type greeting
  msgwire new --body "Hello" --from alice --to bob --type greeting | msgwire encode`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if idScheme == "" {
				idScheme = a.cfg.IDScheme
			}
			gen, err := message.GeneratorByName(idScheme)
			if err != nil {
				return err
			}
			if format == "" {
				format = a.cfg.Codec
			}
			ct, err := codec.ParseCodecType(format)
			if err != nil {
				return err
			}

			m, created := message.New(body, from, to, typ, message.WithGenerator(gen))
			if validate {
				if err := m.Validate(); err != nil {
					return err
				}
			}

			data, err := codec.GetCodec(ct).Encode(m)
			if err != nil {
				return err
			}
			if ct == codec.CodecTypeJSON {
				data = append(data, '\n')
			}
			if _, err := cmd.OutOrStdout().Write(data); err != nil {
				return err
			}

			a.logger.Debug().Str("id", m.ID).Time("created", created).Msg("record created")
			return nil
		},
	}

	cmd.Flags().StringVar(&body, "body", "", "Message body")
	cmd.Flags().StringVar(&from, "from", "", "Sender id")
	cmd.Flags().StringSliceVar(&to, "to", nil, "Recipient ids, comma separated")
	cmd.Flags().StringVar(&typ, "type", "", "Message type")
	cmd.Flags().StringVar(&idScheme, "id-scheme", "", "Id scheme: uuid or ksuid (default from config)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json, msgpack or binary (default from config)")
	cmd.Flags().BoolVar(&validate, "validate", false, "Fail unless every field is set")
	return cmd
}
