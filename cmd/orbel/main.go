package main

import (
	"fmt"
	"os"

	kitlog "github.com/go-kit/kit/log"
	orbital "github.com/lasr/orbital-elements"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// orbel converts orbital states, evaluates their perturbation rates and energy, and propagates them.
// Every command reads CSV rows of `t,x1,...,x6` and writes CSV to stdout.

type app struct {
	cfgFile string
	input   string
	verbose bool
	conf    *viper.Viper
	params  orbital.Params
	logger  kitlog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{conf: viper.New(), logger: kitlog.NewNopLogger()}
	rootCmd := &cobra.Command{
		Use:   "orbel",
		Short: "Orbital element conversions and perturbation rates",
		Long: `orbel converts batches of orbital states between position-velocity, classical,
modified equinoctial and MEE with mean longitude at epoch elements, evaluates the
zonal gravity (J2 to J6) and constant thrust rates of those states, their energy,
and propagates them with a fixed step RK4.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.initConfig,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is conf.toml in $"+orbital.ConfigEnv+")")
	flags.StringVarP(&a.input, "input", "i", "-", "input CSV file, - for stdin")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log to stderr")
	def := orbital.DefaultParams()
	flags.Float64("mu", def.Mu, "standard gravitational parameter")
	flags.Int("order", def.Order, "zonal gravity order, 1 for two body dynamics")
	flags.Float64("r-earth", def.REarth, "equatorial radius")
	a.conf.BindPFlag("mu", flags.Lookup("mu"))
	a.conf.BindPFlag("order", flags.Lookup("order"))
	a.conf.BindPFlag("r_earth", flags.Lookup("r-earth"))

	rootCmd.AddCommand(
		a.convertCmd(),
		a.ratesCmd(),
		a.energyCmd(),
		a.propagateCmd(),
	)
	return rootCmd
}

func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	if a.verbose {
		a.logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(cmd.ErrOrStderr()))
		a.logger = kitlog.With(a.logger, "ts", kitlog.DefaultTimestampUTC)
	}
	a.conf.SetEnvPrefix("orbel")
	a.conf.AutomaticEnv()

	file, err := orbital.ReadConfig(a.conf, a.cfgFile)
	if err != nil {
		return err
	}
	if file != "" {
		a.logger.Log("level", "info", "subsys", "conf", "file", file)
	}

	params, err := orbital.ParamsFromViper(a.conf)
	if err != nil {
		return err
	}
	a.params = params
	a.logger.Log("level", "info", "subsys", "conf", "params", params)
	return nil
}
