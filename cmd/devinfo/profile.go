package main

import (
	"fmt"
	"io"

	devinfo "github.com/goliatone/go-devinfo"
	"github.com/spf13/cobra"
)

func loadProfiles() (*devinfo.Layered[devinfo.Profile], error) {
	return devinfo.LoadLayeredProfile(devinfo.ProfilePaths{
		Vendor: vendorProfile,
		Device: deviceProfile,
		User:   userProfile,
	})
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect the merged display profile",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the merged profile",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				layered, err := loadProfiles()
				if err != nil {
					return err
				}
				p := layered.Value
				return writeValue(cmd.OutOrStdout(), p, func(w io.Writer) error {
					for _, name := range p.FieldOrder() {
						spec := p.Fields[name]
						line := spec.Key
						if spec.Fallback != "" {
							line += " -> " + spec.Fallback
						}
						if spec.IsRule() {
							line = "[" + engineName(spec.Engine) + "] " + spec.Expr
						}
						if _, err := fmt.Fprintf(w, "%-14s %s\n", name, line); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "paths",
			Short: "List the dotted paths accepted by profile trace",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				layered, err := loadProfiles()
				if err != nil {
					return err
				}
				paths, err := layered.Paths()
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), paths, func(w io.Writer) error {
					for _, p := range paths {
						if _, err := fmt.Fprintf(w, "%s\t%s\n", p.Path, p.Type); err != nil {
							return err
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "trace PATH",
			Short: "Show which profile layer supplies a path",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				layered, err := loadProfiles()
				if err != nil {
					return err
				}
				value, trace, err := layered.ResolveWithTrace(args[0])
				if err != nil {
					return err
				}
				return writeValue(cmd.OutOrStdout(), trace, func(w io.Writer) error {
					for _, layer := range trace.Layers {
						if _, err := fmt.Fprintf(w, "%-8s %-24s found=%-5t %v\n", layer.Scope.Name, layer.Origin, layer.Found, layer.Value); err != nil {
							return err
						}
					}
					_, err := fmt.Fprintf(w, "=> %v\n", value)
					return err
				})
			},
		},
	)
	return cmd
}

func engineName(engine string) string {
	if engine == "" {
		return devinfo.EngineExpr
	}
	return engine
}
