package commands

import (
	"bufio"
	"encoding/base64"
	"encoding/hex"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// FillCmd prints random bytes read from the kernel.
var FillCmd = &cobra.Command{
	Use:   "fill",
	Short: "Print random bytes from the kernel",
	Long: `Print random bytes from the kernel.

Each of the --count buffers is filled by one of --workers goroutines. Every
worker owns its own reader, so with --workers > 1 every worker resolves its
source (and, on kernels without getrandom(2), opens its own device handle).`,
	Example: `osrand fill --bytes 32 --format hex
osrand fill --bytes 1024 --count 8 --workers 4 --format base64`,
	RunE: fill,
}

var (
	fillBytes   int
	fillCount   int
	fillWorkers int
	fillFormat  string
)

func init() {
	FillCmd.Flags().IntVar(&fillBytes, "bytes", 32, "size of each buffer in bytes")
	FillCmd.Flags().IntVar(&fillCount, "count", 1, "number of buffers to print")
	FillCmd.Flags().IntVar(&fillWorkers, "workers", 1, "number of goroutines filling buffers")
	FillCmd.Flags().StringVar(&fillFormat, "format", "hex", "output format: hex, base64 or raw")
}

func fill(cmd *cobra.Command, args []string) error {
	if fillBytes < 0 || fillCount < 1 || fillWorkers < 1 {
		return errors.New("--bytes must be >= 0, --count and --workers must be >= 1")
	}
	encode, err := encoder(fillFormat)
	if err != nil {
		return err
	}

	sys := newSystem()
	bufs := make([][]byte, fillCount)

	var g errgroup.Group
	for w := 0; w < fillWorkers; w++ {
		w := w
		g.Go(func() error {
			r := sys.NewReader()
			defer r.Close()
			for i := w; i < fillCount; i += fillWorkers {
				bufs[i] = make([]byte, fillBytes)
				if err := r.Fill(bufs[i]); err != nil {
					return errors.Wrapf(err, "buffer %d", i)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	for _, buf := range bufs {
		if _, err := out.Write(encode(buf)); err != nil {
			return err
		}
	}
	return out.Flush()
}

func encoder(format string) (func([]byte) []byte, error) {
	switch format {
	case "hex":
		return func(b []byte) []byte { return append([]byte(hex.EncodeToString(b)), '\n') }, nil
	case "base64":
		return func(b []byte) []byte { return append([]byte(base64.StdEncoding.EncodeToString(b)), '\n') }, nil
	case "raw":
		return func(b []byte) []byte { return b }, nil
	default:
		return nil, errors.Errorf("unknown format %q (must be hex, base64 or raw)", format)
	}
}
