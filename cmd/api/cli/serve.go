package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"desktop-core-service/cmd/api/app"
	"desktop-core-service/cmd/api/server"
)

func newServeCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the REST and gRPC servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := st.serviceLogger()
			if err != nil {
				return err
			}

			ctx, stop := server.WithSignal(cmd.Context())
			defer stop()

			a, err := app.New(ctx, st.cfg, l)
			if err != nil {
				l.Error("failed to initialize application", zap.Error(err))
				return err
			}
			return a.Run(ctx)
		},
	}
}
