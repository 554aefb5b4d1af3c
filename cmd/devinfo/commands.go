package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	devinfo "github.com/goliatone/go-devinfo"
	"github.com/goliatone/go-devinfo/pkg/drawable"
	"github.com/goliatone/go-devinfo/pkg/hostprobe"
	"github.com/goliatone/go-devinfo/pkg/props"
	"github.com/spf13/cobra"
)

func propertyStore() devinfo.PropertyStore {
	getters := make([]props.Getter, 0, len(propFiles))
	for _, path := range propFiles {
		getters = append(getters, props.NewFileStore(path))
	}
	return props.Chain(getters...)
}

func buildReporter() (*devinfo.Reporter, error) {
	layered, err := devinfo.LoadLayeredProfile(devinfo.ProfilePaths{
		Vendor: vendorProfile,
		Device: deviceProfile,
		User:   userProfile,
	})
	if err != nil {
		return nil, err
	}
	for _, scope := range layered.Scopes() {
		logger.Debug("profile layer", "scope", scope.Name, "priority", scope.Priority)
	}
	return devinfo.NewLayeredReporter(propertyStore(), layered,
		devinfo.WithLogger(logger),
		devinfo.WithEvaluatorLogger(devinfo.HCLogEvaluatorLogger(logger.Named("rules"))),
	)
}

func probe() *hostprobe.Probe {
	return hostprobe.New(
		hostprobe.WithStoragePath(storagePath),
		hostprobe.WithLogger(logger.Named("probe")),
		hostprobe.WithScreen(hostprobe.Screen{
			Width:        screenFlags[0],
			UsableHeight: screenFlags[1],
			RealHeight:   screenFlags[2],
		}),
	)
}

func addProbeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&storagePath, "storage-path", "/", "filesystem to measure")
	cmd.Flags().Int32Var(&screenFlags[0], "screen-width", 0, "display width in pixels")
	cmd.Flags().Int32Var(&screenFlags[1], "screen-usable-height", 0, "usable display height in pixels")
	cmd.Flags().Int32Var(&screenFlags[2], "screen-real-height", 0, "real display height in pixels")
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Collect and print a device report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reporter, err := buildReporter()
			if err != nil {
				return err
			}
			report, err := reporter.CollectFrom(cmd.Context(), probe())
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), report)
		},
	}
	addProbeFlags(cmd)
	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-collect the report on an interval until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reporter, err := buildReporter()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			refresher := devinfo.NewRefresher(reporter, probe(), func(r devinfo.Report) {
				if err := writeReport(out, r); err != nil {
					logger.Warn("write report failed", "error", err)
				}
			}, devinfo.WithLogger(logger), devinfo.WithRefreshInterval(interval))

			if err := refresher.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	addProbeFlags(cmd)
	cmd.Flags().DurationVar(&interval, "interval", devinfo.DefaultRefreshInterval, "refresh interval")
	return cmd
}

func resolveCmd() *cobra.Command {
	var fallback, def string
	var trace bool
	cmd := &cobra.Command{
		Use:   "resolve KEY",
		Short: "Resolve one property through its fallback chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := devinfo.NewResolver(propertyStore(), devinfo.WithLogger(logger))
			steps := []devinfo.Lookup{
				devinfo.Key(devinfo.PropertyKey(args[0])),
				devinfo.Key(devinfo.PropertyKey(fallback)),
			}
			if cmd.Flags().Changed("default") {
				steps = append(steps, devinfo.Literal(def))
			} else {
				steps = append(steps, devinfo.Sentinel())
			}
			value, tr := resolver.ResolveWithTrace(steps...)
			if trace {
				return writeValue(cmd.OutOrStdout(), tr, func(w io.Writer) error {
					for _, step := range tr.Steps {
						if _, err := fmt.Fprintf(w, "%d %-28s found=%-5t %q\n", step.Index, step.Origin, step.Found, step.Value); err != nil {
							return err
						}
					}
					_, err := fmt.Fprintf(w, "=> %s\n", value)
					return err
				})
			}
			return writeValue(cmd.OutOrStdout(), map[string]string{"key": args[0], "value": value}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, value)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&fallback, "fallback", "", "secondary key")
	cmd.Flags().StringVar(&def, "default", "", "default when both keys are absent (unknown sentinel when unset)")
	cmd.Flags().BoolVar(&trace, "trace", false, "print every step consulted")
	return cmd
}

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize raw hardware measurements",
	}

	var fallbackMAh int32
	battery := &cobra.Command{
		Use:   "battery MAH",
		Short: "Apply the battery plausibility fallback",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			measured, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("battery capacity: %w", err)
			}
			capacity := devinfo.BatteryCapacity(int32(measured), func() int32 { return fallbackMAh })
			return printLine(cmd.OutOrStdout(), "battery", devinfo.FormatBattery(capacity))
		},
	}
	battery.Flags().Int32Var(&fallbackMAh, "fallback", 0, "hardware profile capacity in mAh")

	cmd.AddCommand(
		bytesCmd("storage", "Snap storage bytes to a marketed tier", devinfo.NormalizeStorage),
		bytesCmd("storage-size", "Render storage bytes with a unit", devinfo.StorageSize),
		bytesCmd("ram", "Round memory bytes up to whole GiB", devinfo.NormalizeRAMTier),
		battery,
		&cobra.Command{
			Use:   "screen WIDTH CONTENT_HEIGHT CHROME_INSET",
			Short: "Render the screen resolution",
			Args:  cobra.ExactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				values, err := parseInt32s(args)
				if err != nil {
					return err
				}
				return printLine(cmd.OutOrStdout(), "screen", devinfo.ScreenResolution(values[0], values[1], values[2]))
			},
		},
	)
	return cmd
}

func bytesCmd(name, short string, fn func(uint64) string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " BYTES",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("%s bytes: %w", name, err)
			}
			return printLine(cmd.OutOrStdout(), name, fn(raw))
		},
	}
}

func progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress WIDTH HEIGHT LEVEL",
		Short: "Compute the visible rect of a rounded progress bar",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseInt32s(args)
			if err != nil {
				return err
			}
			bar := drawable.NewRoundedProgress(drawable.NewInset(drawable.NewShape(drawable.Context{}, 0, 0), drawable.Insets{}))
			bar.SetBounds(drawable.RectFromLTWH(0, 0, int(values[0]), int(values[1])))
			bar.SetLevel(int(values[2]))
			visible := bar.Visible()
			result := map[string]any{
				"bounds":  bar.Bounds(),
				"visible": visible,
				"span":    drawable.ProgressSpan(bar.Bounds(), bar.Level()),
			}
			return writeValue(cmd.OutOrStdout(), result, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "visible: %d,%d - %d,%d (width %d)\n",
					visible.Left, visible.Top, visible.Right, visible.Bottom, visible.Width())
				return err
			})
		},
	}
}

func printLine(w io.Writer, key, value string) error {
	return writeValue(w, map[string]string{key: value}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, value)
		return err
	})
}

func parseInt32s(args []string) ([]int32, error) {
	out := make([]int32, len(args))
	for i, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		out[i] = int32(v)
	}
	return out, nil
}
