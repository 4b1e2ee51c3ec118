package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/theoremus-urban-solutions/trixhub/providers"
)

func newArrivalsCmd(v *viper.Viper) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "arrivals <bus-provider>",
		Short: "Print the upcoming arrivals a bus provider would show",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger := newLogger(cfg)
			name := args[0]

			if kind, ok := providers.KindOf(name); !ok || kind != providers.KindBus {
				return fmt.Errorf("%q is not a bus provider", name)
			}
			p, err := providers.NewTransit(name, cfg.Provider(name), providerDeps(cfg, logger).Registry, nil, logger)
			if err != nil {
				return err
			}
			arrivals, err := p.Arrivals(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(arrivals)
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ROUTE\tDIR\tHEADSIGN\tARRIVAL\tMIN\tTYPE\tURGENCY")
			for _, a := range arrivals {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", a.RouteShortName, a.Direction, a.Headsign,
					a.ArrivalTime.Format("15:04"), a.MinutesUntil, a.Origin, a.Urgency)
			}
			if len(arrivals) == 0 {
				fmt.Fprintf(tw, "no arrivals at stop %s\n", p.StopID())
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
