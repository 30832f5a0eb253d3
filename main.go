package main

import "github.com/llehouerou/reel/internal/cli"

func main() {
	cli.Execute()
}
