package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/born-ml/photonic/internal/serialization"
)

func newInspectCmd(a *app) *cobra.Command {
	var skipChecksum bool
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Print the tensors and metadata of a SafeTensors file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := serialization.ReadWithOptions(args[0], serialization.ReaderOptions{
				SkipChecksumValidation: skipChecksum,
				ValidationLevel:        serialization.ValidationStrict,
			})
			if err != nil {
				return err
			}
			a.log.Debug().Str("path", args[0]).Int("tensors", len(f.Tensors)).Msg("File read")

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "run_id: %s\n", f.RunID)
			fmt.Fprintf(w, "created_at: %s\n", f.CreatedAt.Format(time.RFC3339Nano))
			fmt.Fprintf(w, "sha256: %s\n", f.Checksum)
			fmt.Fprintln(w, "tensors:")
			for _, name := range f.Names() {
				t, err := f.Tensor(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "  %s %s %v\n", name, t.DType(), t.Shape())
			}
			if len(f.Metadata) == 0 {
				return nil
			}
			keys := make([]string, 0, len(f.Metadata))
			for k := range f.Metadata {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintln(w, "metadata:")
			for _, k := range keys {
				fmt.Fprintf(w, "  %s: %s\n", k, f.Metadata[k])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipChecksum, "skip-checksum", false, "do not verify the data checksum")
	return cmd
}
