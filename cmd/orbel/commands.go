package main

import (
	"fmt"
	"io"

	orbital "github.com/lasr/orbital-elements"
	"github.com/lasr/orbital-elements/propagate"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

func (a *app) load(cmd *cobra.Command) ([]float64, *mat.Dense, error) {
	in, err := a.open(cmd.InOrStdin())
	if err != nil {
		return nil, nil, err
	}
	defer in.Close()
	T, X, err := readBatch(in)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %s", a.input, err)
	}
	a.logger.Log("level", "info", "subsys", "io", "input", a.input, "samples", len(T))
	return T, X, nil
}

func repFlag(cmd *cobra.Command, name string) (orbital.Representation, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return 0, err
	}
	return orbital.ParseRepresentation(s)
}

// dynamics returns the zonal gravity rates of rep, with the thrust and the two body drift if requested.
func (a *app) dynamics(cmd *cobra.Command, rep orbital.Representation, keplerian bool) (orbital.Dynamics, error) {
	thrust, err := cmd.Flags().GetFloat64Slice("thrust")
	if err != nil {
		return nil, err
	}
	sum := orbital.Sum{orbital.NewZonalGravity(rep, a.params)}
	switch len(thrust) {
	case 0:
	case 3:
		ct := orbital.NewConstantThrust(thrust[0], thrust[1], thrust[2], rep, a.params.Mu)
		a.logger.Log("level", "info", "subsys", "dyn", "thrust", ct)
		sum = append(sum, ct)
	default:
		return nil, fmt.Errorf("thrust needs radial, transverse and normal components, got %d", len(thrust))
	}
	if keplerian {
		sum = append(sum, orbital.KeplerianDynamics{Rep: rep, Mu: a.params.Mu})
	}
	return sum, nil
}

func (a *app) convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert states between representations",
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := repFlag(cmd, "from")
			if err != nil {
				return err
			}
			to, err := repFlag(cmd, "to")
			if err != nil {
				return err
			}
			T, X, err := a.load(cmd)
			if err != nil {
				return err
			}
			Y, err := orbital.Convert(T, X, from, to, a.params.Mu)
			if err != nil {
				return err
			}
			return writeBatch(cmd.OutOrStdout(), header("t", to.Columns()), T, Y)
		},
	}
	cmd.Flags().String("from", "rv", "representation of the input (rv, coe, mee, meeMl0)")
	cmd.Flags().String("to", "mee", "representation of the output (rv, coe, mee, meeMl0)")
	return cmd
}

func (a *app) ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Evaluate the perturbation rates of states",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := repFlag(cmd, "rep")
			if err != nil {
				return err
			}
			keplerian, _ := cmd.Flags().GetBool("keplerian")
			dyn, err := a.dynamics(cmd, rep, keplerian)
			if err != nil {
				return err
			}
			T, X, err := a.load(cmd)
			if err != nil {
				return err
			}
			r, err := dyn.Rates(T, X)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if r.Accel == nil {
				return writeBatch(out, header("t", rateColumns(rep)), T, r.Xdot)
			}
			return writeBatch(out, header("t", rateColumns(rep), accelColumns), T, r.Xdot, r.Accel)
		},
	}
	cmd.Flags().String("rep", "mee", "representation of the input (rv, coe, mee, meeMl0)")
	cmd.Flags().Float64Slice("thrust", nil, "constant LVLH thrust acceleration: radial,transverse,normal")
	cmd.Flags().Bool("keplerian", false, "include the two body rates")
	return cmd
}

func (a *app) energyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "energy",
		Short: "Evaluate the Hamiltonian of states, zonal terms included",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := repFlag(cmd, "rep")
			if err != nil {
				return err
			}
			T, X, err := a.load(cmd)
			if err != nil {
				return err
			}
			H, err := orbital.HamiltonianOf(T, X, rep, a.params)
			if err != nil {
				return err
			}
			return writeBatch(cmd.OutOrStdout(), []string{"t", "H"}, T, mat.NewDense(len(H), 1, H))
		},
	}
	cmd.Flags().String("rep", "rv", "representation of the input (rv, coe, mee, meeMl0)")
	return cmd
}

func (a *app) propagateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Propagate the first input state with a fixed step RK4",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep, err := repFlag(cmd, "rep")
			if err != nil {
				return err
			}
			step, _ := cmd.Flags().GetFloat64("step")
			steps, _ := cmd.Flags().GetUint64("steps")
			dyn, err := a.dynamics(cmd, rep, true)
			if err != nil {
				return err
			}
			T, X, err := a.load(cmd)
			if err != nil {
				return err
			}
			p, err := propagate.New(dyn, X.RawRowView(0), T[0], step, steps, a.logger)
			if err != nil {
				return err
			}
			T, X, err = p.Propagate()
			if err != nil {
				return err
			}
			return a.writeHistory(cmd.OutOrStdout(), rep, T, X)
		},
	}
	cmd.Flags().String("rep", "mee", "representation of the input and of the integrated state")
	cmd.Flags().Float64("step", 0.01, "step size")
	cmd.Flags().Uint64("steps", 100, "number of steps")
	cmd.Flags().Float64Slice("thrust", nil, "constant LVLH thrust acceleration: radial,transverse,normal")
	return cmd
}

func (a *app) writeHistory(w io.Writer, rep orbital.Representation, T []float64, X *mat.Dense) error {
	H, err := orbital.HamiltonianOf(T, X, rep, a.params)
	if err != nil {
		return err
	}
	return writeBatch(w, header("t", rep.Columns(), []string{"H"}), T, X, mat.NewDense(len(H), 1, H))
}
