package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dev-shimada/csv-record-mapper/internal/mapper"
)

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Use the file's first row as field names. That row is never printed as data.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(m *mapper.Mapper, path string) ([]mapper.Record, error) {
			return m.ByHeader(path)
		})
	},
}
