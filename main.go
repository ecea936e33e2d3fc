package main

import "github.com/deeemdeeem/tt-report-automation/cmd"

func main() {
	cmd.Execute()
}
