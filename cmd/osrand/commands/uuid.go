package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// UUIDCmd prints version 4 UUIDs whose random bits come from the kernel.
var UUIDCmd = &cobra.Command{
	Use:   "uuid",
	Short: "Print random (version 4) UUIDs",
	RunE:  genUUID,
}

var uuidCount int

func init() {
	UUIDCmd.Flags().IntVar(&uuidCount, "count", 1, "number of UUIDs to print")
}

func genUUID(cmd *cobra.Command, args []string) error {
	if uuidCount < 1 {
		return errors.New("--count must be >= 1")
	}

	r := newSystem().NewReader()
	defer r.Close()

	for i := 0; i < uuidCount; i++ {
		id, err := uuid.NewRandomFromReader(r)
		if err != nil {
			return errors.Wrap(err, "generate uuid")
		}
		fmt.Fprintln(cmd.OutOrStdout(), id.String())
	}
	return nil
}
