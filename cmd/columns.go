package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dev-shimada/csv-record-mapper/internal/mapper"
)

var (
	columns      []string
	skipFirstRow bool
)

var columnsCmd = &cobra.Command{
	Use:   "columns",
	Short: "Name the columns positionally with --columns; the first row is kept as data unless --skip-first-row is set.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd, func(m *mapper.Mapper, path string) ([]mapper.Record, error) {
			return m.ByColumns(path, !skipFirstRow, columns)
		})
	},
}

func init() {
	columnsCmd.Flags().StringSliceVarP(&columns, "columns", "C", nil, "Field names in file column order, comma separated")
	columnsCmd.Flags().BoolVarP(&skipFirstRow, "skip-first-row", "s", false, "Drop the first row of the file")
}
