package main

import "stationboard/cmd"

func main() {
	cmd.Execute()
}
