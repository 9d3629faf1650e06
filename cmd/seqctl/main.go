package main

import "github.com/ncseq/seqserver/internal/cli"

func main() {
	cli.Execute()
}
