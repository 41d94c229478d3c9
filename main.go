package main

import "github.com/dev-shimada/csv-record-mapper/cmd"

func main() {
	cmd.Execute()
}
