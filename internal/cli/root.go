package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/i474232898/skycast/internal/render"
	"github.com/i474232898/skycast/internal/weather"
)

var validate = validator.New()

// Resolver is the pipeline as seen by the terminal client.
type Resolver interface {
	ResolveByCity(ctx context.Context, query string) (weather.View, error)
	ResolveByCoordinates(ctx context.Context, coords weather.Coordinates, knownName string) (weather.View, error)
}

// Options wires the commands to their collaborators.
type Options struct {
	Resolver    Resolver
	DefaultCity string
	Out         io.Writer
	Err         io.Writer
	// Spinner shows an in-flight indicator on Err.
	Spinner bool
}

// ErrLookupFailed is returned after the failure message has been printed.
var ErrLookupFailed = errors.New("lookup failed")

// NewRootCommand builds the skycast-cli command tree.
func NewRootCommand(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}

	cmd := &cobra.Command{
		Use:   "skycast-cli",
		Short: "Current weather for a city or coordinates",
		Long: `Look up current conditions and today's high/low.

Description:
  "city" geocodes a place name first; "here" uses coordinates directly.
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(opts.Out)
	cmd.SetErr(opts.Err)

	cmd.AddCommand(newCityCommand(opts))
	cmd.AddCommand(newHereCommand(opts))

	return cmd
}

func newCityCommand(opts Options) *cobra.Command {
	return &cobra.Command{
		Use:   "city [name]",
		Short: "Weather for a city name",
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				name = opts.DefaultCity
			}
			if err := validate.Var(name, "required,max=200"); err != nil {
				return fmt.Errorf("invalid city name: %w", err)
			}

			return show(cmd.Context(), opts, func(ctx context.Context) (weather.View, error) {
				return opts.Resolver.ResolveByCity(ctx, name)
			})
		},
	}
}

type hereFlags struct {
	Lat  float64 `validate:"gte=-90,lte=90"`
	Lon  float64 `validate:"gte=-180,lte=180"`
	Name string  `validate:"max=200"`
}

func newHereCommand(opts Options) *cobra.Command {
	var f hereFlags

	cmd := &cobra.Command{
		Use:   "here",
		Short: "Weather for latitude/longitude",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validate.Struct(f); err != nil {
				return fmt.Errorf("invalid coordinates: %w", err)
			}

			coords := weather.Coordinates{Latitude: f.Lat, Longitude: f.Lon}
			return show(cmd.Context(), opts, func(ctx context.Context) (weather.View, error) {
				return opts.Resolver.ResolveByCoordinates(ctx, coords, strings.TrimSpace(f.Name))
			})
		},
	}

	cmd.Flags().Float64Var(&f.Lat, "lat", 0, "Latitude in decimal degrees")
	cmd.Flags().Float64Var(&f.Lon, "lon", 0, "Longitude in decimal degrees")
	cmd.Flags().StringVarP(&f.Name, "name", "n", "", "Display name for the location (default \"Current Location\")")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

// show runs one lookup and prints either the view or the failure message.
func show(ctx context.Context, opts Options, resolve func(context.Context) (weather.View, error)) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var s *spinner.Spinner
	if opts.Spinner {
		s = spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(opts.Err))
		s.Suffix = " Syncing with satellites..."
		s.Start()
	}

	outcome := weather.NewOutcome(resolve(ctx))

	if s != nil {
		s.Stop()
	}

	if outcome.State == weather.StateFailed {
		fmt.Fprintln(opts.Err, outcome.Message)
		return ErrLookupFailed
	}
	return render.Text(opts.Out, *outcome.View)
}
