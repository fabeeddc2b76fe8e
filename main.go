package main

import "github.com/naka-gawa/repo-analyzer/cmd"

func main() {
	cmd.Execute()
}
