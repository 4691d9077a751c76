// frostctl queries the frost prediction backend from a terminal.
//
// Usage:
//
//	frostctl predecir --temperatura 1.5 --ubicacion "Patala"
//	frostctl pronostico --contract v2
//	frostctl actual
//	frostctl historial
package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/i474232898/frost-dashboard/internal/frost"
	"github.com/i474232898/frost-dashboard/internal/frost/backend"
	"github.com/i474232898/frost-dashboard/internal/view"
)

var validate = validator.New()

func main() {
	// Flag EnvVars are read while parsing, so .env must be loaded first.
	envErr := godotenv.Load()

	app := &cli.App{
		Name:  "frostctl",
		Usage: "Frost prediction dashboard for the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend-url",
				Value:   "http://localhost:5000",
				Usage:   "Base URL of the prediction backend",
				EnvVars: []string{"BACKEND_URL"},
			},
			&cli.DurationFlag{
				Name:    "timeout",
				Value:   10 * time.Second,
				Usage:   "Timeout of each backend request",
				EnvVars: []string{"HTTP_TIMEOUT"},
			},
			&cli.StringFlag{
				Name:    "contract",
				Value:   string(frost.ContractBatch),
				Usage:   "Automatic forecast response contract (v1 single record, v2 batch)",
				EnvVars: []string{"FORECAST_CONTRACT"},
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable coloured output",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Print request logs to stderr",
			},
		},
		Before: func(c *cli.Context) error {
			configureLogging(c.Bool("verbose"), envErr)
			return nil
		},
		Commands: []*cli.Command{
			predictCommand(),
			forecastCommand(),
			currentCommand(),
			historyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// configureLogging silences request logs unless verbose is set.
func configureLogging(verbose bool, envErr error) {
	if !verbose {
		log.SetOutput(io.Discard)
	}
	if envErr != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", envErr)
	}
}

func predictCommand() *cli.Command {
	return &cli.Command{
		Name:  "predecir",
		Usage: "Request a prediction for the given conditions",
		Flags: []cli.Flag{
			&cli.Float64Flag{Name: "temperatura", Value: 5.0, Usage: "Temperature (°C)"},
			&cli.Float64Flag{Name: "humedad-relativa", Value: 85.0, Usage: "Relative humidity (%)"},
			&cli.Float64Flag{Name: "presion", Value: 1012.0, Usage: "Atmospheric pressure (hPa)"},
			&cli.Float64Flag{Name: "humedad-suelo", Value: 60.0, Usage: "Soil humidity (%)"},
			&cli.StringFlag{Name: "ubicacion", Value: "Valle Central", EnvVars: []string{"MANUAL_UBICACION"}},
			&cli.StringFlag{Name: "estacion", Value: "Estación Meteorológica Principal", EnvVars: []string{"MANUAL_ESTACION"}},
		},
		Action: func(c *cli.Context) error {
			f := frost.Features{
				Temperatura:        c.Float64("temperatura"),
				HumedadRelativa:    c.Float64("humedad-relativa"),
				PresionAtmosferica: c.Float64("presion"),
				HumedadSuelo:       c.Float64("humedad-suelo"),
				Ubicacion:          c.String("ubicacion"),
				Estacion:           c.String("estacion"),
			}
			if err := validate.Struct(f); err != nil {
				return fmt.Errorf("invalid features: %w", err)
			}

			ctl, err := newController(c)
			if err != nil {
				return err
			}
			st, _ := ctl.TriggerManual(c.Context, f)
			return output(c, st)
		},
	}
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "pronostico",
		Usage: "Request the automatic hourly forecast",
		Action: func(c *cli.Context) error {
			ctl, err := newController(c)
			if err != nil {
				return err
			}
			st, _ := ctl.TriggerAutomatic(c.Context)
			return output(c, st)
		},
	}
}

func currentCommand() *cli.Command {
	return &cli.Command{
		Name:  "actual",
		Usage: "Show the last stored prediction",
		Action: func(c *cli.Context) error {
			ctl, err := newController(c)
			if err != nil {
				return err
			}
			st, _ := ctl.LoadCurrent(c.Context)
			return output(c, st)
		},
	}
}

func historyCommand() *cli.Command {
	return &cli.Command{
		Name:  "historial",
		Usage: "Print the URL of the prediction history page",
		Action: func(c *cli.Context) error {
			client := backend.New(backend.Options{BaseURL: c.String("backend-url")})
			fmt.Fprintln(c.App.Writer, client.HistoryURL())
			return nil
		},
	}
}

func newController(c *cli.Context) (*frost.Controller, error) {
	contract, ok := frost.ParseForecastContract(c.String("contract"))
	if !ok {
		return nil, fmt.Errorf("invalid contract %q", c.String("contract"))
	}

	client := backend.New(backend.Options{
		BaseURL:    c.String("backend-url"),
		HTTPClient: &http.Client{Timeout: c.Duration("timeout")},
		Contract:   contract,
	})
	display := frost.NewDisplay(frost.IdleState(time.Now().UTC()), true)
	return frost.NewController(client, display, nil), nil
}

// output prints the state and turns a failed request into a non-zero exit.
func output(c *cli.Context, st frost.UIState) error {
	term := view.Terminal{Plain: c.Bool("no-color")}
	fmt.Fprint(c.App.Writer, term.Render(st))
	if st.Phase == frost.PhaseFailed {
		return cli.Exit("", 1)
	}
	return nil
}
